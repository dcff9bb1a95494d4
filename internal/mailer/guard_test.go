package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcsoccercamp/camp-api/pkg/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardedMailer_OpensAfterRepeatedFailures(t *testing.T) {
	unavailable := errors.New("smtp: 421 service not available")
	recorder := NewRecorder()
	recorder.FailWith(unavailable)

	guarded := NewGuardedMailer(recorder, circuitbreaker.New(circuitbreaker.Config{
		Name:             "mail-smtp",
		FailureThreshold: 2,
		RecoveryTimeout:  time.Hour,
	}))
	msg := &Message{From: "camp@example.com", To: []string{"parent@example.com"}, Subject: "Hi"}

	assert.ErrorIs(t, guarded.Send(context.Background(), msg), unavailable)
	assert.ErrorIs(t, guarded.Send(context.Background(), msg), unavailable)

	recorder.FailWith(nil)
	err := guarded.Send(context.Background(), msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Empty(t, recorder.Sent(), "open circuit must not reach the transport")

	assert.Equal(t, "recorder", guarded.Transport())
	assert.Equal(t, circuitbreaker.Open, guarded.Breaker().State())
}
