// Package metrics instruments runs with Prometheus metrics. Every run gets
// its own registry, which is written to a text file in the exposition
// format when the run ends.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/addcalc/internal/carry"
	"github.com/agbru/addcalc/internal/comm"
	"github.com/agbru/addcalc/internal/sysmon"
)

const namespace = "addcalc"

// Recorder owns the registry and metric families of a run.
type Recorder struct {
	reg      *prometheus.Registry
	tagName  func(int) string
	messages *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	carries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	digits   *prometheus.GaugeVec
}

// NewRecorder creates a recorder. tagName labels message tags; nil labels
// them by number.
func NewRecorder(tagName func(int) string) *Recorder {
	if tagName == nil {
		tagName = strconv.Itoa
	}
	r := &Recorder{
		reg:     prometheus.NewRegistry(),
		tagName: tagName,
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Point-to-point messages sent, by strategy and tag.",
		}, []string{"strategy", "tag"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_bytes_sent_total",
			Help:      "Payload bytes sent, by strategy and tag.",
		}, []string{"strategy", "tag"}),
		carries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carry_tokens_total",
			Help:      "Outgoing carries produced by chunk owners, by value.",
		}, []string{"strategy", "value"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a complete distributed addition.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"strategy"}),
		digits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "result_digits",
			Help:      "Number of digits of the last sum.",
		}, []string{"strategy"}),
	}
	r.reg.MustRegister(r.messages, r.bytes, r.carries, r.duration, r.digits,
		NewMemoryCollector(), sysmon.NewCollector(namespace))
	return r
}

// Registry returns the registry holding the run's metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Wrap returns c with its sends counted under strategy.
func (r *Recorder) Wrap(c comm.Communicator, strategy string) comm.Communicator {
	return &countingComm{Communicator: c, r: r, strategy: strategy}
}

// WrapAll wraps every endpoint of a world.
func (r *Recorder) WrapAll(comms []comm.Communicator, strategy string) []comm.Communicator {
	out := make([]comm.Communicator, len(comms))
	for i, c := range comms {
		out[i] = r.Wrap(c, strategy)
	}
	return out
}

// CarryObserver counts the carry each propagator finishes with.
func (r *Recorder) CarryObserver(strategy string) carry.Observer {
	return carry.ObserverFunc(func(t carry.Transition) {
		if t.To == carry.Done {
			r.carries.WithLabelValues(strategy, strconv.Itoa(int(t.Carry))).Inc()
		}
	})
}

// ObserveRun records the duration of a run and the size of its sum.
func (r *Recorder) ObserveRun(strategy string, d time.Duration, digits int) {
	r.duration.WithLabelValues(strategy).Observe(d.Seconds())
	r.digits.WithLabelValues(strategy).Set(float64(digits))
}

// WriteFile writes every metric of the registry to path.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

type countingComm struct {
	comm.Communicator
	r        *Recorder
	strategy string
}

func (c *countingComm) Send(ctx context.Context, dst, tag int, payload []byte) error {
	if err := c.Communicator.Send(ctx, dst, tag, payload); err != nil {
		return err
	}
	label := c.r.tagName(tag)
	c.r.messages.WithLabelValues(c.strategy, label).Inc()
	c.r.bytes.WithLabelValues(c.strategy, label).Add(float64(len(payload)))
	return nil
}
