package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "pricefeed"

// Gauges are live readings owned by other components.
type Gauges struct {
	CachedSymbols func() int
	Connected     func() bool
}

// NewRegistry exposes m and g on a dedicated registry together with the Go
// runtime memory and process stats.
func NewRegistry(m *Metrics, g Gauges) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reg.MustRegister(Collectors(m, g)...)
	return reg
}

// Collectors builds func-backed collectors reading m and g on scrape.
func Collectors(m *Metrics, g Gauges) []prometheus.Collector {
	counter := func(name, help string, read func(Snapshot) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(read(m.Snapshot()))
		})
	}

	cs := []prometheus.Collector{
		counter("messages_total", "Stream messages received.",
			func(s Snapshot) uint64 { return s.Messages }),
		counter("batches_rejected_total", "Stream messages dropped as malformed.",
			func(s Snapshot) uint64 { return s.BatchesRejected }),
		counter("records_applied_total", "Ticker records written to the cache.",
			func(s Snapshot) uint64 { return s.RecordsApplied }),
		counter("records_rejected_total", "Ticker records skipped as malformed.",
			func(s Snapshot) uint64 { return s.RecordsRejected }),
		counter("connects_total", "Successful stream handshakes.",
			func(s Snapshot) uint64 { return s.Connects }),
		counter("disconnects_total", "Stream sessions that ended.",
			func(s Snapshot) uint64 { return s.Disconnects }),
		counter("reconnects_scheduled_total", "Reconnect attempts scheduled.",
			func(s Snapshot) uint64 { return s.ReconnectsScheduled }),
		counter("exhaustions_total", "Times the reconnect budget ran out.",
			func(s Snapshot) uint64 { return s.Exhaustions }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "apply_latency_avg_seconds",
			Help:      "Average time to decode and apply one stream message.",
		}, func() float64 {
			return m.Snapshot().ApplyLatency.Avg.Seconds()
		}),
	}

	if g.CachedSymbols != nil {
		cs = append(cs, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_symbols",
			Help:      "Symbols currently held in the price cache.",
		}, func() float64 {
			return float64(g.CachedSymbols())
		}))
	}
	if g.Connected != nil {
		cs = append(cs, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "1 while the stream session is live.",
		}, func() float64 {
			if g.Connected() {
				return 1
			}
			return 0
		}))
	}

	return cs
}
