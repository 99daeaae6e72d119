// Package metrics 提供回放运行的 Prometheus 计数器。
// 回放是批处理任务，没有常驻 HTTP 端口，计数器挂在私有 Registry 上，
// 结束时可导出为 textfile（node_exporter textfile collector 格式）。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics 是一次回放运行的指标集合。
type RunMetrics struct {
	registry *prometheus.Registry

	events      prometheus.Counter
	rebuilds    prometheus.Counter
	predictions prometheus.Counter
	ranked      prometheus.Counter
}

// NewRunMetrics 创建指标集合并注册到私有 Registry。
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsim",
			Name:      "events_processed_total",
			Help:      "Replayed events.",
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsim",
			Name:      "model_rebuilds_total",
			Help:      "Model rebuilds triggered by the scheduler.",
		}),
		predictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsim",
			Name:      "predictions_total",
			Help:      "Events with a finite prediction.",
		}),
		ranked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsim",
			Name:      "rank_evaluations_total",
			Help:      "Events with a computed recommendation rank.",
		}),
	}
	m.registry.MustRegister(m.events, m.rebuilds, m.predictions, m.ranked)
	return m
}

func (m *RunMetrics) IncEvents()      { m.events.Inc() }
func (m *RunMetrics) IncRebuilds()    { m.rebuilds.Inc() }
func (m *RunMetrics) IncPredictions() { m.predictions.Inc() }
func (m *RunMetrics) IncRanked()      { m.ranked.Inc() }

// WriteTextfile 把当前指标写到 path（prometheus 文本格式）。
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
