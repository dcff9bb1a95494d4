package payments

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// StubProvider settles every intent immediately. For local development and tests.
type StubProvider struct {
	mu      sync.Mutex
	intents map[string]Intent
}

func NewStubProvider() *StubProvider {
	return &StubProvider{intents: make(map[string]Intent)}
}

func (p *StubProvider) Name() string {
	return ProviderStub
}

func (p *StubProvider) CreateIntent(_ context.Context, req CreateIntentRequest) (*Intent, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	id := "pi_stub_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	intent := Intent{
		ID:           id,
		ClientSecret: id + "_secret_stub",
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       StatusSucceeded,
		Program:      req.Program,
	}

	p.mu.Lock()
	p.intents[id] = intent
	p.mu.Unlock()

	return &intent, nil
}

func (p *StubProvider) GetIntent(_ context.Context, id string) (*Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	intent, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIntentNotFound, id)
	}
	return &intent, nil
}

// SetStatus overrides the status of a created intent.
func (p *StubProvider) SetStatus(id, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if intent, ok := p.intents[id]; ok {
		intent.Status = status
		p.intents[id] = intent
	}
}
