package ai

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"resume-builder/internal/blobs"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/retry"
	"resume-builder/internal/shared/telemetry"
)

const (
	breakerConsecutiveFailures = 5
	breakerOpenTimeout         = 30 * time.Second
)

// Guard wraps a Provider with a per-call deadline, retries and a circuit
// breaker per operation. Errors leave it classified.
type Guard struct {
	Provider Provider
	Policy   retry.Policy
	Timeout  time.Duration

	suggest *gobreaker.CircuitBreaker[[]Suggestion]
	write   *gobreaker.CircuitBreaker[[]Bullet]
}

func NewGuard(p Provider, policy retry.Policy, timeout time.Duration) *Guard {
	return &Guard{
		Provider: p,
		Policy:   policy,
		Timeout:  timeout,
		suggest:  gobreaker.NewCircuitBreaker[[]Suggestion](breakerSettings(p.Name() + "-suggest")),
		write:    gobreaker.NewCircuitBreaker[[]Bullet](breakerSettings(p.Name() + "-bullets")),
	}
}

func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
		// only upstream trouble counts against the provider
		IsSuccessful: func(err error) bool {
			return err == nil || !apperr.IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Warn("ai.breaker.state", map[string]any{"breaker": name, "from": from.String(), "to": to.String()})
		},
	}
}

func (g *Guard) Name() string  { return g.Provider.Name() }
func (g *Guard) Model() string { return g.Provider.Model() }

func (g *Guard) Suggest(ctx context.Context, jobText string, items []blobs.Blob) ([]Suggestion, error) {
	start := time.Now()
	out, err := g.suggest.Execute(func() ([]Suggestion, error) {
		return retry.DoValue(ctx, g.policy("suggest"), func(ctx context.Context) ([]Suggestion, error) {
			ctx, cancel := g.deadline(ctx)
			defer cancel()
			return g.Provider.Suggest(ctx, jobText, items)
		})
	})
	g.observe("suggest", start, err)
	if err != nil {
		return nil, classifyBreaker(err)
	}
	return Normalize(out, items), nil
}

func (g *Guard) WriteBullets(ctx context.Context, jobText, feedback string, items []blobs.Blob) ([]Bullet, error) {
	start := time.Now()
	out, err := g.write.Execute(func() ([]Bullet, error) {
		return retry.DoValue(ctx, g.policy("bullets"), func(ctx context.Context) ([]Bullet, error) {
			ctx, cancel := g.deadline(ctx)
			defer cancel()
			return g.Provider.WriteBullets(ctx, jobText, feedback, items)
		})
	})
	g.observe("bullets", start, err)
	if err != nil {
		return nil, classifyBreaker(err)
	}
	return out, nil
}

func (g *Guard) policy(op string) retry.Policy {
	p := g.Policy
	p.Name = "ai." + g.Provider.Name() + "." + op
	return p
}

func (g *Guard) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.Timeout)
}

func (g *Guard) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.KindOf(classifyBreaker(err)).String()
		telemetry.Warn("ai.call.failed", map[string]any{"provider": g.Provider.Name(), "operation": op, "error": err})
	}
	metrics.ObserveAICall(g.Provider.Name(), op, outcome, time.Since(start))
}

func classifyBreaker(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperr.NewTransient("ai_unavailable", "the AI service is temporarily unavailable", err)
	}
	return err
}

var _ Provider = (*Guard)(nil)
