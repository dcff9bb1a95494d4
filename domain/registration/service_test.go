package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/internal/models"
	"github.com/mcsoccercamp/camp-api/internal/payments"
	apperrors "github.com/mcsoccercamp/camp-api/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func validRequest() *CreateRegistrationRequest {
	return &CreateRegistrationRequest{
		PlayerFirstName:  "Ava",
		PlayerLastName:   "Santos",
		Program:          "youth",
		ShirtSize:        "YM",
		ParentFirstName:  "Maria",
		ParentLastName:   "Santos",
		Email:            "Maria@Example.com ",
		Phone:            "555-0100",
		EmergencyContact: "Joao Santos",
		EmergencyPhone:   "555-0101",
		AgreedToTerms:    true,
	}
}

func saveWithID(id string) func(context.Context, *models.Registration) (*models.Registration, error) {
	return func(_ context.Context, r *models.Registration) (*models.Registration, error) {
		r.ID = id
		return r, nil
	}
}

type fixture struct {
	repo     *MockRegistrationRepository
	provider *payments.MockProvider
	recorder *mailer.Recorder
	counter  *prometheus.CounterVec
	service  RegistrationService
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     NewMockRegistrationRepository(ctrl),
		provider: payments.NewMockProvider(ctrl),
		recorder: mailer.NewRecorder(),
		counter:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_registrations_total"}, []string{"program", "status"}),
	}
	f.service = NewRegistrationService(ServiceDeps{
		Logger:     log.NewLoggerWithJSONOutput(),
		Repository: f.repo,
		Payments:   f.provider,
		Mailer:     f.recorder,
		Composer: mailer.NewComposer(mailer.ComposerConfig{
			From:        "camp@example.com",
			Bcc:         []string{"coach@example.com"},
			SiteBaseURL: "https://camp.example.com",
		}),
		Registered: f.counter,
	})
	return f
}

func TestRegistrationService_Register(t *testing.T) {
	t.Run("unpaid registration is saved pending at program price and emailed", func(t *testing.T) {
		f := newFixture(t)

		var saved *models.Registration
		f.repo.EXPECT().
			CreateRegistration(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, r *models.Registration) (*models.Registration, error) {
				saved = r
				return saveWithID("3f1c2a9e-0000-4000-8000-000000000001")(ctx, r)
			})

		resp, err := f.service.Register(context.Background(), validRequest())
		require.NoError(t, err)

		assert.Equal(t, "3f1c2a9e-0000-4000-8000-000000000001", resp.RegistrationID)
		assert.Equal(t, "Ava Santos", saved.PlayerName)
		assert.Equal(t, "Maria Santos", saved.ParentName)
		assert.Equal(t, "maria@example.com", saved.Email)
		assert.Equal(t, models.YouthProgramPrice, saved.Amount)
		assert.Equal(t, models.PaymentStatusPending, saved.PaymentStatus)
		assert.Equal(t, models.RegistrationStatusPending, saved.Status)

		sent := f.recorder.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, []string{"maria@example.com"}, sent[0].To)
		assert.Equal(t, []string{"coach@example.com"}, sent[0].Bcc)
		assert.Contains(t, sent[0].HTMLBody, "registrationId=3f1c2a9e-0000-4000-8000-000000000001")

		metric := &dto.Metric{}
		require.NoError(t, f.counter.WithLabelValues("youth", "pending").Write(metric))
		assert.Equal(t, float64(1), metric.GetCounter().GetValue())
	})

	t.Run("verified payment marks the registration paid and confirmed", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.Program = "highschool"
		req.PaymentIntentID = "pi_123"
		req.Amount = 1

		f.provider.EXPECT().
			GetIntent(gomock.Any(), "pi_123").
			Return(&payments.Intent{ID: "pi_123", Amount: 24900, Status: payments.StatusSucceeded, Program: "highschool"}, nil)
		f.repo.EXPECT().PaymentIntentInUse(gomock.Any(), "pi_123").Return(false, nil)

		var saved *models.Registration
		f.repo.EXPECT().
			CreateRegistration(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, r *models.Registration) (*models.Registration, error) {
				saved = r
				return saveWithID("3f1c2a9e-0000-4000-8000-000000000002")(ctx, r)
			})

		_, err := f.service.Register(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, models.PaymentStatusPaid, saved.PaymentStatus)
		assert.Equal(t, models.RegistrationStatusConfirmed, saved.Status)
		assert.Equal(t, int64(24900), saved.Amount)
	})

	t.Run("incomplete payment is rejected before saving", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.PaymentIntentID = "pi_pending"

		f.provider.EXPECT().
			GetIntent(gomock.Any(), "pi_pending").
			Return(&payments.Intent{ID: "pi_pending", Status: "requires_payment_method"}, nil)

		_, err := f.service.Register(context.Background(), req)

		require.Error(t, err)
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
		assert.Equal(t, "Payment has not been completed", apperrors.GetHumanReadableMessage(err))
		assert.Empty(t, f.recorder.Sent())
	})

	t.Run("intent that does not pay for the registration is rejected", func(t *testing.T) {
		cases := []struct {
			name    string
			intent  payments.Intent
			inUse   bool
			message string
		}{
			{
				name:    "intent for another program",
				intent:  payments.Intent{ID: "pi_youth", Amount: 24900, Status: payments.StatusSucceeded, Program: "youth"},
				message: "Payment does not match the selected program",
			},
			{
				name:    "amount below the program price",
				intent:  payments.Intent{ID: "pi_cheap", Amount: 1, Status: payments.StatusSucceeded, Program: "highschool"},
				message: "Payment amount does not cover the program price",
			},
			{
				name:    "intent already backs a registration",
				intent:  payments.Intent{ID: "pi_used", Amount: 24900, Status: payments.StatusSucceeded, Program: "highschool"},
				inUse:   true,
				message: "Payment has already been used for another registration",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newFixture(t)
				req := validRequest()
				req.Program = "highschool"
				req.PaymentIntentID = tc.intent.ID

				intent := tc.intent
				f.provider.EXPECT().GetIntent(gomock.Any(), tc.intent.ID).Return(&intent, nil)
				if tc.inUse {
					f.repo.EXPECT().PaymentIntentInUse(gomock.Any(), tc.intent.ID).Return(true, nil)
				}

				_, err := f.service.Register(context.Background(), req)

				require.Error(t, err)
				assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
				assert.Equal(t, tc.message, apperrors.GetHumanReadableMessage(err))
				assert.Empty(t, f.recorder.Sent())
			})
		}
	})

	t.Run("reuse lookup failure is returned", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.PaymentIntentID = "pi_ok"

		f.provider.EXPECT().
			GetIntent(gomock.Any(), "pi_ok").
			Return(&payments.Intent{ID: "pi_ok", Amount: models.YouthProgramPrice, Status: payments.StatusSucceeded, Program: "youth"}, nil)
		f.repo.EXPECT().
			PaymentIntentInUse(gomock.Any(), "pi_ok").
			Return(false, apperrors.NewDatabaseError("unable to check payment intent", errors.New("conn refused")))

		_, err := f.service.Register(context.Background(), req)

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
	})

	t.Run("provider outage is an external service error", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.PaymentIntentID = "pi_x"

		f.provider.EXPECT().
			GetIntent(gomock.Any(), "pi_x").
			Return(nil, errors.New("stripe: connection reset"))

		_, err := f.service.Register(context.Background(), req)

		require.Error(t, err)
		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
		assert.Equal(t, "stripe: connection reset", apperrors.GetErrorDetails(err))
	})

	t.Run("claimed payment without intent is recorded as pending", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.PaymentStatus = models.PaymentStatusPaid

		var saved *models.Registration
		f.repo.EXPECT().
			CreateRegistration(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, r *models.Registration) (*models.Registration, error) {
				saved = r
				return saveWithID("3f1c2a9e-0000-4000-8000-000000000003")(ctx, r)
			})

		_, err := f.service.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, saved.PaymentStatus)
	})

	t.Run("repository error is returned", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			CreateRegistration(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("unable to save registration", errors.New("disk full")))

		_, err := f.service.Register(context.Background(), validRequest())

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
		assert.Empty(t, f.recorder.Sent())
	})

	t.Run("email failure surfaces after the record is saved", func(t *testing.T) {
		f := newFixture(t)
		f.recorder.FailWith(errors.New("smtp: 421 try again later"))

		f.repo.EXPECT().
			CreateRegistration(gomock.Any(), gomock.Any()).
			DoAndReturn(saveWithID("3f1c2a9e-0000-4000-8000-000000000004"))

		_, err := f.service.Register(context.Background(), validRequest())

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeExternalServiceError, apperrors.GetErrorType(err))
		assert.Equal(t, "smtp: 421 try again later", apperrors.GetErrorDetails(err))
	})

	t.Run("position is matched against the offered positions", func(t *testing.T) {
		f := newFixture(t)
		req := validRequest()
		req.Position = " goalkeeper "

		var saved *models.Registration
		f.repo.EXPECT().
			CreateRegistration(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, r *models.Registration) (*models.Registration, error) {
				saved = r
				return saveWithID("3f1c2a9e-0000-4000-8000-000000000005")(ctx, r)
			})

		_, err := f.service.Register(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Goalkeeper", saved.Position)

		req = validRequest()
		req.Position = "Striker"
		_, err = f.service.Register(context.Background(), req)

		require.Error(t, err)
		assert.Equal(t, "Invalid position", apperrors.GetHumanReadableMessage(err))
	})

	t.Run("nil request", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Register(context.Background(), nil)

		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
	})
}
