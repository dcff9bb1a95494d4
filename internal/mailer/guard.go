package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcsoccercamp/camp-api/pkg/circuitbreaker"
)

// GuardedMailer stops calling a failing transport while its breaker is open.
type GuardedMailer struct {
	next    Mailer
	breaker *circuitbreaker.Breaker
}

func NewGuardedMailer(next Mailer, breaker *circuitbreaker.Breaker) *GuardedMailer {
	return &GuardedMailer{next: next, breaker: breaker}
}

func (g *GuardedMailer) Transport() string {
	return g.next.Transport()
}

func (g *GuardedMailer) Send(ctx context.Context, msg *Message) error {
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.Send(ctx, msg)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return fmt.Errorf("mailer: %s transport unavailable: %w", g.next.Transport(), err)
	}
	return err
}

// Breaker exposes the breaker for health reporting.
func (g *GuardedMailer) Breaker() *circuitbreaker.Breaker {
	return g.breaker
}
