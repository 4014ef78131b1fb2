// Package categorize assigns expense categories.
//
// A Categorizer is an oracle that may be slow, wrong or unavailable. Callers
// go through Resolver, which never fails: errors, timeouts, unknown categories
// and an open circuit breaker all degrade to the Default analysis.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Input is what a categorizer sees of an expense.
type Input struct {
	Title       string
	Description string
	Amount      float64
}

// Analysis is a suggested category with a confidence in [0, 1].
type Analysis struct {
	Category   string
	Confidence float64
	// ChosenByUser is set when the category came from the user, not from a
	// categorizer.
	ChosenByUser bool
}

// Default is the analysis used whenever the oracle cannot answer.
var Default = Analysis{Category: Other, Confidence: 0.5}

// Categorizer suggests a category for an expense.
type Categorizer interface {
	Categorize(ctx context.Context, in Input) (Analysis, error)
}

// ErrUnknownCategory is returned when an oracle answers with a category that
// is not in Categories.
var ErrUnknownCategory = errors.New("unknown category")

// Resolver applies the category policy around a Categorizer.
type Resolver struct {
	Categorizer Categorizer
	// Timeout bounds one oracle call. Zero means no extra deadline.
	Timeout time.Duration
	// OnFallback, if set, is called with a short reason whenever the
	// Default analysis is used.
	OnFallback func(reason string)
}

// Resolve returns the category for an expense. A valid category chosen by the
// user wins with confidence 1 and the oracle is not consulted.
func (r *Resolver) Resolve(ctx context.Context, userCategory string, in Input) Analysis {
	if userCategory != "" {
		if c, ok := Canonical(userCategory); ok {
			return Analysis{Category: c, Confidence: 1, ChosenByUser: true}
		}
		slog.Debug("ignoring unknown user category", "category", userCategory)
	}

	if r == nil || r.Categorizer == nil {
		return r.fallback("disabled")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	analysis, err := r.Categorizer.Categorize(ctx, in)
	if err != nil {
		slog.Warn("categorization failed, using default", "title", in.Title, "error", err)
		return r.fallback(reason(err))
	}

	c, ok := Canonical(analysis.Category)
	if !ok {
		slog.Warn("categorizer returned unknown category", "category", analysis.Category)
		return r.fallback("unknown_category")
	}
	analysis.Category = c
	if analysis.Confidence <= 0 || analysis.Confidence > 1 {
		analysis.Confidence = Default.Confidence
	}
	return analysis
}

func (r *Resolver) fallback(why string) Analysis {
	if r != nil && r.OnFallback != nil {
		r.OnFallback(why)
	}
	return Default
}

func reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrBreakerOpen):
		return "breaker_open"
	case errors.Is(err, ErrUnknownCategory):
		return "unknown_category"
	default:
		return "error"
	}
}

// New builds the categorizer named by kind: "keyword" or "openai".
func New(kind, apiKey, model string) (Categorizer, error) {
	switch kind {
	case "", "keyword":
		return NewKeyword(), nil
	case "openai":
		if apiKey == "" {
			return nil, errors.New("openai categorizer requires an API key")
		}
		return NewBreaker(NewOpenAI(apiKey, model), BreakerSettings{}), nil
	default:
		return nil, fmt.Errorf("unknown categorizer %q", kind)
	}
}
