// Package tracing creates OpenTelemetry spans for participants of a run.
// Spans go to the global tracer provider, which is a no-op unless the
// embedding program installs an SDK.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/addcalc/internal/carry"
)

const instrumentationName = "github.com/agbru/addcalc"

// Attribute keys attached to participant spans.
const (
	KeyStrategy = attribute.Key("addcalc.strategy")
	KeyRank     = attribute.Key("addcalc.rank")
	KeyRole     = attribute.Key("addcalc.role")
	KeyCarry    = attribute.Key("addcalc.carry")
)

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartParticipant opens the span covering one rank's part of a run.
func StartParticipant(ctx context.Context, strategy, role string, rank int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, strategy+"."+role,
		trace.WithAttributes(
			KeyStrategy.String(strategy),
			KeyRole.String(role),
			KeyRank.Int(rank),
		),
	)
}

// CarryObserver records every carry protocol transition as an event on span.
func CarryObserver(span trace.Span) carry.Observer {
	return carry.ObserverFunc(func(t carry.Transition) {
		span.AddEvent(t.To.String(), trace.WithAttributes(
			KeyRank.Int(t.Rank),
			KeyCarry.Int(int(t.Carry)),
		))
	})
}

// RecordError marks span as failed when err is non-nil and returns err.
func RecordError(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
