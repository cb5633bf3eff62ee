package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/worldsearch/internal/db"
)

var (
	poolMaxDesc = prometheus.NewDesc(
		"worldsearch_db_pool_max_conns", "Maximum size of the connection pool", nil, nil)
	poolTotalDesc = prometheus.NewDesc(
		"worldsearch_db_pool_total_conns", "Connections currently open", nil, nil)
	poolIdleDesc = prometheus.NewDesc(
		"worldsearch_db_pool_idle_conns", "Idle connections", nil, nil)
	poolAcquiredDesc = prometheus.NewDesc(
		"worldsearch_db_pool_acquired_conns", "Connections currently checked out", nil, nil)
	poolAcquireDesc = prometheus.NewDesc(
		"worldsearch_db_pool_acquires_total", "Successful connection acquisitions", nil, nil)
	poolEmptyAcquireDesc = prometheus.NewDesc(
		"worldsearch_db_pool_empty_acquires_total", "Acquisitions that had to wait for a free connection", nil, nil)
)

// PoolCollector exports connection pool state at scrape time.
type PoolCollector struct {
	stat func() db.PoolStat
}

// NewPoolCollector creates a collector reading from stat on every scrape.
func NewPoolCollector(stat func() db.PoolStat) *PoolCollector {
	return &PoolCollector{stat: stat}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- poolMaxDesc
	ch <- poolTotalDesc
	ch <- poolIdleDesc
	ch <- poolAcquiredDesc
	ch <- poolAcquireDesc
	ch <- poolEmptyAcquireDesc
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stat()
	ch <- prometheus.MustNewConstMetric(poolMaxDesc, prometheus.GaugeValue, float64(s.MaxConns))
	ch <- prometheus.MustNewConstMetric(poolTotalDesc, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(poolIdleDesc, prometheus.GaugeValue, float64(s.IdleConns))
	ch <- prometheus.MustNewConstMetric(poolAcquiredDesc, prometheus.GaugeValue, float64(s.AcquiredConns))
	ch <- prometheus.MustNewConstMetric(poolAcquireDesc, prometheus.CounterValue, float64(s.AcquireCount))
	ch <- prometheus.MustNewConstMetric(poolEmptyAcquireDesc, prometheus.CounterValue, float64(s.EmptyAcquireCount))
}
