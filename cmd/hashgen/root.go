package main

import (
	"fmt"
	"os"
	"strconv"

	"blogtools/internal/config"
	"blogtools/internal/hashgen"
	"blogtools/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hashgen <count>",
	Short: "Print a C++ switch over <count> random strings keyed by their murmur3 hash",
	Long: `hashgen draws <count> random strings from a seeded generator, hashes each
with MurmurHash3 x86_32 (seed 0) and prints a C++ translation unit. The
ONLY_CONSTANTS and CONSTEXPR_HASH macros select between a switch and a list
of constants, hashed either at compile time or ahead of time.

The default seed and the mt19937 algorithm reproduce the strings used by the
compile-time hashing blog post benchmark.`,
	Args:              cobra.ExactArgs(1),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runGenerate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	writeMetrics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write run metrics in Prometheus textfile format")

	rootCmd.Flags().Int64("seed", hashgen.DefaultSeed, "Seed of the string generator")
	rootCmd.Flags().Int("length", hashgen.DefaultLength, "Length of every generated string")
	rootCmd.Flags().String("alphabet", hashgen.DefaultAlphabet, "Characters the strings are drawn from")
	rootCmd.Flags().String("algorithm", hashgen.AlgorithmMT19937, "Generator algorithm (mt19937, pcg)")
}

var flagKeys = map[string]string{
	"verbose":           "verbose",
	"metrics.file":      "metrics-file",
	"hashgen.seed":      "seed",
	"hashgen.length":    "length",
	"hashgen.alphabet":  "alphabet",
	"hashgen.algorithm": "algorithm",
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.Load(cfgFile); err != nil {
		return err
	}

	for key, name := range flagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	if err := config.ValidateConfig(); err != nil {
		return err
	}

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
	return nil
}

func writeMetrics() {
	path := viper.GetString("metrics.file")
	if path == "" {
		return
	}
	if err := telemetry.WriteMetricsFile(path); err != nil {
		telemetry.LogError("Failed to write metrics file", err, "path", path)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 0 {
		return fmt.Errorf("count must be a non-negative integer, got %q", args[0])
	}

	algorithm := viper.GetString("hashgen.algorithm")
	seed := viper.GetInt64("hashgen.seed")
	seq, err := hashgen.NewSequence(algorithm, seed)
	if err != nil {
		return err
	}

	texts, err := hashgen.GenerateStrings(seq, count, viper.GetInt("hashgen.length"), viper.GetString("hashgen.alphabet"))
	if err != nil {
		return err
	}

	cases, err := hashgen.Build(texts)
	if err != nil {
		return err
	}

	if err := hashgen.Render(cmd.OutOrStdout(), cases); err != nil {
		return fmt.Errorf("failed to render cases: %w", err)
	}

	telemetry.TrackHashCases(len(cases))
	telemetry.LogDebug("Generated hash cases", "count", len(cases), "algorithm", algorithm, "seed", seed)
	return nil
}
