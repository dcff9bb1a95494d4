package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/mcsoccercamp/camp-api/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// CampDetails is the session information quoted in confirmation emails.
type CampDetails struct {
	Name         string
	Dates        string
	Time         string
	Location     string
	ContactEmail string
	PackingList  []string
}

func DefaultCampDetails() CampDetails {
	return CampDetails{
		Name:         "MC Girls Soccer Camp",
		Dates:        "July 28-31, 2025",
		Time:         "8:00 AM - 12:00 PM",
		Location:     "Brother Gilbert Stadium (Donovan Field), Malden Catholic High School, 99 Crystal Street, Malden, MA 02148",
		ContactEmail: "mcgirlssoccer12@gmail.com",
		PackingList: []string{
			"Soccer cleats and shin guards",
			"Water bottle",
			"Sunscreen",
			"Light snack",
		},
	}
}

type ComposerConfig struct {
	Camp CampDetails
	// From is the sender on confirmations, e.g. `"MC Girls Soccer Camp" <mcgirlssoccer12@gmail.com>`.
	From string
	// Bcc receives a copy of every confirmation.
	Bcc []string
	// NotifyFrom and NotifyTo address contact form notifications.
	NotifyFrom string
	NotifyTo   []string
	// SiteBaseURL prefixes the waiver follow-up link; empty omits the link.
	SiteBaseURL string
	// Waiver is attached to confirmations when non-nil.
	Waiver *Attachment
	// Location renders contact submission timestamps.
	Location *time.Location
}

// Composer renders the camp's outgoing emails.
type Composer struct {
	cfg ComposerConfig
}

func NewComposer(cfg ComposerConfig) *Composer {
	if cfg.Camp.Name == "" {
		cfg.Camp = DefaultCampDetails()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Composer{cfg: cfg}
}

func (c *Composer) WaiverAttached() bool {
	return c.cfg.Waiver != nil
}

type Confirmation struct {
	To             string
	RegistrationID string
	PlayerName     string
	ParentName     string
	Program        string
}

type confirmationView struct {
	Camp            CampDetails
	PlayerName      string
	ParentName      string
	ProgramLabel    string
	ProgramName     string
	WaiverAttached  bool
	WaiverUploadURL string
}

func (c *Composer) RegistrationConfirmation(in Confirmation) (*Message, error) {
	view := confirmationView{
		Camp:            c.cfg.Camp,
		PlayerName:      in.PlayerName,
		ParentName:      in.ParentName,
		ProgramLabel:    programLabel(in.Program),
		ProgramName:     models.Program(in.Program).DisplayName(),
		WaiverAttached:  c.cfg.Waiver != nil,
		WaiverUploadURL: c.WaiverUploadURL(in.RegistrationID, in.PlayerName),
	}

	body, err := render("registration_confirmation.html", view)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		From:     c.cfg.From,
		To:       []string{in.To},
		Bcc:      c.cfg.Bcc,
		ReplyTo:  c.cfg.Camp.ContactEmail,
		Subject:  c.cfg.Camp.Name + " Registration Confirmation",
		HTMLBody: body,
	}
	if c.cfg.Waiver != nil {
		msg.Attachments = []Attachment{*c.cfg.Waiver}
	}
	return msg, nil
}

// WaiverUploadURL builds the follow-up page link, or "" without a base URL.
func (c *Composer) WaiverUploadURL(registrationID, playerName string) string {
	base := strings.TrimRight(c.cfg.SiteBaseURL, "/")
	if base == "" || registrationID == "" {
		return ""
	}
	q := url.Values{}
	q.Set("registrationId", registrationID)
	q.Set("playerName", playerName)
	return base + "/waiver-submission?" + q.Encode()
}

type ContactNotification struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	SubmittedAt time.Time
}

func (c *Composer) ContactNotification(in ContactNotification) (*Message, error) {
	view := struct {
		ContactNotification
		SubmittedAt string
	}{
		ContactNotification: in,
		SubmittedAt:         in.SubmittedAt.In(c.cfg.Location).Format("January 2, 2006 at 03:04 PM MST"),
	}

	body, err := render("contact_notification.html", view)
	if err != nil {
		return nil, err
	}

	return &Message{
		From:     c.cfg.NotifyFrom,
		To:       c.cfg.NotifyTo,
		ReplyTo:  in.Email,
		Subject:  "New Contact Form: " + in.Subject,
		HTMLBody: body,
	}, nil
}

// programLabel title-cases a program code. Casers are stateful, so one is built per call.
func programLabel(program string) string {
	return cases.Title(language.English).String(program)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("mailer: render %s: %w", name, err)
	}
	return buf.String(), nil
}
