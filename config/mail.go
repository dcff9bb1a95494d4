package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/internal/mailer"
	"github.com/mcsoccercamp/camp-api/pkg/circuitbreaker"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
)

const (
	MailProviderSMTP = "smtp"
	MailProviderSES  = "ses"
	MailProviderLog  = "log"

	defaultMailFrom          = `"MC Girls Soccer Camp" <mcgirlssoccer12@gmail.com>`
	defaultMailBcc           = "michael@mcolombo.com"
	defaultContactNotifyFrom = `"Colombo Soccer Camp" <michael@mcolombo.com>`
	defaultContactNotifyTo   = "michael@mcolombo.com"
	defaultMailTimeZone      = "America/New_York"
)

type MailConfig struct {
	Provider string
	SMTP     mailer.SMTPConfig

	From       string
	Bcc        []string
	NotifyFrom string
	NotifyTo   []string

	WaiverPDFPath string
	SiteBaseURL   string
	TimeZone      string

	BreakerFailures int
	BreakerRecovery time.Duration
}

func NewMailConfig() *MailConfig {
	return &MailConfig{
		Provider: strings.ToLower(utils.GetEnvTrimmed("MAIL_PROVIDER")),
		SMTP: mailer.SMTPConfig{
			Host:     utils.GetEnvTrimmed("SMTP_HOST"),
			Port:     utils.GetEnvInt("SMTP_PORT", 587),
			Username: utils.GetEnvTrimmed("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			Timeout:  utils.GetEnvDuration("SMTP_TIMEOUT", 15*time.Second),
		},
		From:          utils.GetEnvTrimmedOrDefault("MAIL_FROM", defaultMailFrom),
		Bcc:           splitList(utils.GetEnvTrimmedOrDefault("MAIL_BCC", defaultMailBcc)),
		NotifyFrom:    utils.GetEnvTrimmedOrDefault("CONTACT_NOTIFY_FROM", defaultContactNotifyFrom),
		NotifyTo:      splitList(utils.GetEnvTrimmedOrDefault("CONTACT_NOTIFY_TO", defaultContactNotifyTo)),
		WaiverPDFPath: utils.GetEnvTrimmed("WAIVER_PDF_PATH"),
		SiteBaseURL:   strings.TrimRight(utils.GetEnvTrimmed("SITE_BASE_URL"), "/"),
		TimeZone:      utils.GetEnvTrimmedOrDefault("MAIL_TIMEZONE", defaultMailTimeZone),

		BreakerFailures: utils.GetEnvInt("MAIL_BREAKER_FAILURES", 5),
		BreakerRecovery: utils.GetEnvDuration("MAIL_BREAKER_RECOVERY", time.Minute),
	}
}

// resolvedProvider falls back to the log transport when SMTP is selected but not configured.
func (mc *MailConfig) resolvedProvider() string {
	switch mc.Provider {
	case "", MailProviderSMTP:
		if mc.SMTP.Host == "" {
			return MailProviderLog
		}
		return MailProviderSMTP
	default:
		return mc.Provider
	}
}

func (mc *MailConfig) NewMailer(ctx context.Context, logger *log.Logger) (mailer.Mailer, error) {
	provider := mc.resolvedProvider()

	switch provider {
	case MailProviderSMTP:
		m, err := mailer.NewSMTPMailer(mc.SMTP)
		if err != nil {
			logger.Error("Failed to create SMTP mailer", "error", err)
			return nil, err
		}
		logger.Info("Mail transport configured", "transport", provider, "host", mc.SMTP.Host, "port", mc.SMTP.Port)
		return mc.guard(m, logger), nil
	case MailProviderSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			logger.Error("Failed to load AWS config for SES", "error", err)
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		logger.Info("Mail transport configured", "transport", provider, "region", awsCfg.Region)
		return mc.guard(mailer.NewSESMailer(sesv2.NewFromConfig(awsCfg)), logger), nil
	case MailProviderLog:
		logger.Warn("Mail transport is log-only; emails will not be delivered")
		return mailer.NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", mc.Provider)
	}
}

func (mc *MailConfig) guard(m mailer.Mailer, logger *log.Logger) mailer.Mailer {
	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:             "mail-" + m.Transport(),
		FailureThreshold: mc.BreakerFailures,
		RecoveryTimeout:  mc.BreakerRecovery,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			logger.Warn("Mail circuit changed state", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return mailer.NewGuardedMailer(m, breaker)
}

func (mc *MailConfig) NewComposer(logger *log.Logger) (*mailer.Composer, error) {
	loc, err := time.LoadLocation(mc.TimeZone)
	if err != nil {
		logger.Warn("Unknown mail time zone; using UTC", "timezone", mc.TimeZone, "error", err)
		loc = time.UTC
	}

	var waiver *mailer.Attachment
	if mc.WaiverPDFPath != "" {
		waiver, err = LoadWaiverAttachment(mc.WaiverPDFPath)
		if err != nil {
			logger.Error("Waiver PDF could not be loaded; confirmations will go out without it", "path", mc.WaiverPDFPath, "error", err)
		} else {
			logger.Info("Waiver PDF loaded", "path", mc.WaiverPDFPath, "bytes", len(waiver.Data))
		}
	}

	return mailer.NewComposer(mailer.ComposerConfig{
		Camp:        mailer.DefaultCampDetails(),
		From:        mc.From,
		Bcc:         mc.Bcc,
		NotifyFrom:  mc.NotifyFrom,
		NotifyTo:    mc.NotifyTo,
		SiteBaseURL: mc.SiteBaseURL,
		Waiver:      waiver,
		Location:    loc,
	}), nil
}

// LoadWaiverAttachment reads the static waiver form and checks it really is a PDF.
func LoadWaiverAttachment(path string) (*mailer.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read waiver pdf: %w", err)
	}

	if mt := mimetype.Detect(data); !mt.Is("application/pdf") {
		return nil, fmt.Errorf("waiver file %s is %s, not a PDF", path, mt.String())
	}

	return &mailer.Attachment{
		Filename:    filepath.Base(path),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
