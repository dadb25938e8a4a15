package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the run metrics. The tools are short-lived, so metrics are
// dumped to a textfile at exit rather than served.
var Registry = prometheus.NewRegistry()

var (
	metricsCSVFiles = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "blogtools_csv_files_written_total",
		Help: "Number of chart CSV tables written",
	})

	metricsChartRenders = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "blogtools_chart_renders_total",
		Help: "Chart renderer invocations by result",
	}, []string{"result"})

	metricsChartRenderOK     = metricsChartRenders.WithLabelValues("ok")
	metricsChartRenderFailed = metricsChartRenders.WithLabelValues("failure")

	metricsParseErrors = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "blogtools_parse_errors_total",
		Help: "Benchmark logs rejected by the parser",
	})

	metricsHashCases = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "blogtools_hash_cases_generated_total",
		Help: "Hash cases rendered by hashgen",
	})
)

func TrackCSVWritten() {
	metricsCSVFiles.Inc()
}

func TrackChartRender(ok bool) {
	if ok {
		metricsChartRenderOK.Inc()
		return
	}
	metricsChartRenderFailed.Inc()
}

func TrackParseError() {
	metricsParseErrors.Inc()
}

func TrackHashCases(n int) {
	metricsHashCases.Add(float64(n))
}

// WriteMetricsFile writes every registered metric to path in the
// node_exporter textfile format.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
