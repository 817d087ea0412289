package runner

import (
	"github.com/BeamlakAschalew/movie-providers/internal/events"
	"github.com/BeamlakAschalew/movie-providers/internal/features"
	"github.com/BeamlakAschalew/movie-providers/internal/media"
	"github.com/BeamlakAschalew/movie-providers/internal/provider"
)

type outcomeKind int

const (
	kindAccepted outcomeKind = iota
	kindRejected
	kindFaulted
)

// outcome classifies one attempt: accepted, rejected with a reason
// (reported as notfound) or faulted with an error (reported as failure).
type outcome struct {
	kind   outcomeKind
	reason string
	err    error
}

func (o outcome) accepted() bool { return o.kind == kindAccepted }

func rejected(reason string) outcome {
	return outcome{kind: kindRejected, reason: reason}
}

// faulted maps a provider error: not-found errors become rejections,
// everything else a failure.
func faulted(err error) outcome {
	if provider.IsNotFound(err) {
		return rejected(provider.Reason(err))
	}
	return outcome{kind: kindFaulted, err: err}
}

// check is the acceptance gate for a produced stream.
func check(s media.Stream, enabled features.Set) outcome {
	if !media.Valid(s) {
		return rejected("stream is incomplete")
	}
	if !features.Allowed(enabled, s.Flags) {
		return rejected("stream doesn't satisfy target feature flags")
	}
	return outcome{kind: kindAccepted}
}

// asError converts a non-accepted outcome back into an error for callers
// of the individual runners.
func (o outcome) asError() error {
	switch o.kind {
	case kindRejected:
		return provider.NotFound("%s", o.reason)
	case kindFaulted:
		return o.err
	default:
		return nil
	}
}

func report(sink events.Sink, id string, o outcome) {
	switch o.kind {
	case kindRejected:
		sink.Update(events.UpdateEvent{ID: id, Percentage: 100, Status: events.NotFound, Reason: o.reason})
	case kindFaulted:
		sink.Update(events.UpdateEvent{ID: id, Percentage: 100, Status: events.Failure, Error: o.err})
	}
}
