package sysmon

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSampleRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
	if s.MemUsed > s.MemTotal {
		t.Errorf("MemUsed %d exceeds MemTotal %d", s.MemUsed, s.MemTotal)
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector("test")
	c.sample = func() Stats { return Stats{CPUPercent: 12.5, MemPercent: 40} }

	reg := prometheus.NewRegistry()
	reg.MustRegister(c)
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]float64{}
	for _, f := range families {
		got[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
	}
	if got["test_system_cpu_percent"] != 12.5 || got["test_system_memory_percent"] != 40 {
		t.Errorf("gathered %v", got)
	}
}
