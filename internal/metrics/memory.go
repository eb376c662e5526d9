package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	TotalAlloc   uint64 // cumulative bytes allocated
}

// Since returns the allocation and GC activity between before and s.
// HeapAlloc and Sys keep the later reading.
func (s MemorySnapshot) Since(before MemorySnapshot) MemorySnapshot {
	d := s
	d.NumGC = s.NumGC - before.NumGC
	d.PauseTotalNs = s.PauseTotalNs - before.PauseTotalNs
	d.TotalAlloc = s.TotalAlloc - before.TotalAlloc
	return d
}

// MemoryCollector reads runtime memory statistics. It is also a
// prometheus.Collector exporting the heap in use and the GC count.
type MemoryCollector struct {
	heapDesc *prometheus.Desc
	gcDesc   *prometheus.Desc
}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{
		heapDesc: prometheus.NewDesc(namespace+"_heap_alloc_bytes", "Bytes of heap in use.", nil, nil),
		gcDesc:   prometheus.NewDesc(namespace+"_gc_cycles", "Completed GC cycles.", nil, nil),
	}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		TotalAlloc:   m.TotalAlloc,
	}
}

// Describe implements prometheus.Collector.
func (mc *MemoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- mc.heapDesc
	ch <- mc.gcDesc
}

// Collect implements prometheus.Collector.
func (mc *MemoryCollector) Collect(ch chan<- prometheus.Metric) {
	snap := mc.Snapshot()
	ch <- prometheus.MustNewConstMetric(mc.heapDesc, prometheus.GaugeValue, float64(snap.HeapAlloc))
	ch <- prometheus.MustNewConstMetric(mc.gcDesc, prometheus.CounterValue, float64(snap.NumGC))
}
