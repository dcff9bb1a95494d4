package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the current position of a Breaker.
type State int

const (
	// Closed lets calls through and counts consecutive failures.
	Closed State = iota
	// Open rejects calls until the recovery timeout passes.
	Open
	// HalfOpen lets trial calls through; one failure reopens.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpen = errors.New("circuitbreaker: circuit is open")

type Config struct {
	// Name labels the breaker in state change callbacks.
	Name             string
	FailureThreshold int
	RecoveryTimeout  time.Duration
	SuccessThreshold int
	// IsFailure decides which errors count against the circuit. Nil counts every
	// error except context cancellation by the caller.
	IsFailure func(error) bool
	// OnStateChange runs after the lock is released.
	OnStateChange func(name string, from, to State)
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

// Breaker stops calling a failing dependency for a while after repeated errors.
type Breaker struct {
	cfg Config

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time
	openUntil   time.Time
}

func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = time.Minute
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = defaultIsFailure
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Breaker{cfg: cfg, state: Closed}
}

func defaultIsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Execute runs fn unless the circuit is open, in which case it returns ErrOpen
// without calling fn.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	// fn runs without the lock held.
	err := fn(ctx)
	b.record(err)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	from := b.state
	if b.state == Open && !b.cfg.Now().Before(b.openUntil) {
		b.state = HalfOpen
		b.successes = 0
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)

	if to == Open {
		return ErrOpen
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	from := b.state

	if err != nil && b.cfg.IsFailure(err) {
		b.failures++
		b.lastFailure = b.cfg.Now()
		if b.state == HalfOpen || b.failures >= b.cfg.FailureThreshold {
			b.state = Open
			b.openUntil = b.lastFailure.Add(b.cfg.RecoveryTimeout)
		}
	} else if err == nil {
		b.failures = 0
		if b.state == HalfOpen {
			b.successes++
			if b.successes >= b.cfg.SuccessThreshold {
				b.state = Closed
				b.successes = 0
			}
		}
	}

	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Name() string {
	return b.cfg.Name
}

// Reset closes the circuit and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	from := b.state
	b.state = Closed
	b.failures = 0
	b.successes = 0
	b.mu.Unlock()

	b.notify(from, Closed)
}

type Snapshot struct {
	State       State
	Failures    int
	LastFailure time.Time
	OpenUntil   time.Time
}

func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		State:       b.state,
		Failures:    b.failures,
		LastFailure: b.lastFailure,
		OpenUntil:   b.openUntil,
	}
}
