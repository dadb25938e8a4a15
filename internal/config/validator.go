package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var (
	rendererKinds = []string{"wcchart", "exec", "builtin", "gonum", "none"}
	historyTypes  = []string{"sqlite", "postgres", "json"}
	algorithms    = []string{"mt19937", "pcg"}
)

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	if r := viper.GetString("chart.renderer"); !oneOf(r, rendererKinds) {
		errors = append(errors, fmt.Sprintf("chart.renderer must be one of %s, got: %q", strings.Join(rendererKinds, ", "), r))
	}

	if viper.GetString("chart.renderer") == "wcchart" && viper.GetString("chart.wcchart_path") == "" {
		errors = append(errors, "chart.wcchart_path must be set when chart.renderer is wcchart")
	}

	if viper.GetString("report.output_root") == "" {
		errors = append(errors, "report.output_root must not be empty")
	}

	if viper.GetBool("history.enabled") {
		if t := viper.GetString("history.type"); !oneOf(t, historyTypes) {
			errors = append(errors, fmt.Sprintf("history.type must be one of %s, got: %q", strings.Join(historyTypes, ", "), t))
		}
		if viper.GetString("history.dsn") == "" {
			errors = append(errors, "history.dsn must be set when history is enabled")
		}
	}

	if n := viper.GetInt("hashgen.length"); n <= 0 {
		errors = append(errors, fmt.Sprintf("hashgen.length must be positive, got: %d", n))
	}

	// Generated strings are emitted inside C string literals.
	alphabet := viper.GetString("hashgen.alphabet")
	if alphabet == "" {
		errors = append(errors, "hashgen.alphabet must not be empty")
	} else if strings.ContainsAny(alphabet, "\"\\\n\r\t") {
		errors = append(errors, fmt.Sprintf("hashgen.alphabet must not contain quotes, backslashes or control characters, got: %q", alphabet))
	}

	if a := viper.GetString("hashgen.algorithm"); !oneOf(a, algorithms) {
		errors = append(errors, fmt.Sprintf("hashgen.algorithm must be one of %s, got: %q", strings.Join(algorithms, ", "), a))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errors, "\n  "))
	}

	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
