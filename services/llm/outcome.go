package llm

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// OutcomeKind classifies how a deadline-bounded generation attempt
// ended. Callers that can fall back to canned text branch on this
// instead of inspecting errors.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeTimeout
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "failure"
	}
}

// Outcome is the result of a single deadline-bounded generation.
// Text is set only for success; Reason only for failure.
type Outcome struct {
	Kind   OutcomeKind
	Text   string
	Reason string
}

// BoundedGenerator wraps a Client with a hard per-call deadline and a
// shared rate limiter so downstream consumers cannot stampede the
// provider. A nil limiter disables rate limiting.
type BoundedGenerator struct {
	client  Client
	timeout time.Duration
	limiter *rate.Limiter
}

func NewBoundedGenerator(client Client, timeout time.Duration, limiter *rate.Limiter) *BoundedGenerator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BoundedGenerator{client: client, timeout: timeout, limiter: limiter}
}

// Generate runs one generation attempt under the configured deadline.
// It never returns an error: a deadline overrun becomes a timeout
// outcome and anything else becomes a failure outcome, so callers get
// exactly one of the three terminal states.
func (g *BoundedGenerator) Generate(ctx context.Context, prompt string, params GenerationParams) Outcome {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			// Wait reports a plain error, not context.DeadlineExceeded,
			// when the reservation cannot complete before the context
			// deadline. Anything other than an explicit cancellation is
			// a deadline overrun here.
			if errors.Is(err, context.Canceled) {
				return Outcome{Kind: OutcomeFailure, Reason: err.Error()}
			}
			return Outcome{Kind: OutcomeTimeout}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.client.Generate(callCtx, prompt, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			return Outcome{Kind: OutcomeTimeout}
		}
		return Outcome{Kind: OutcomeFailure, Reason: err.Error()}
	}
	return Outcome{Kind: OutcomeSuccess, Text: text}
}
