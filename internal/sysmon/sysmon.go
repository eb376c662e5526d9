// Package sysmon samples system-wide CPU and memory usage around a run.
package sysmon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	MemUsed    uint64
	MemTotal   uint64
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Fields that cannot be read
// stay zero.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemUsed = vmem.Used
		s.MemTotal = vmem.Total
	}
	return s
}

// Collector exports Sample as Prometheus gauges.
type Collector struct {
	cpuDesc *prometheus.Desc
	memDesc *prometheus.Desc
	sample  func() Stats
}

// NewCollector returns a collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		cpuDesc: prometheus.NewDesc(namespace+"_system_cpu_percent", "System-wide CPU usage.", nil, nil),
		memDesc: prometheus.NewDesc(namespace+"_system_memory_percent", "System-wide memory in use.", nil, nil),
		sample:  Sample,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cpuDesc
	ch <- c.memDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.sample()
	ch <- prometheus.MustNewConstMetric(c.cpuDesc, prometheus.GaugeValue, s.CPUPercent)
	ch <- prometheus.MustNewConstMetric(c.memDesc, prometheus.GaugeValue, s.MemPercent)
}
