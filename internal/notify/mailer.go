package notify

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"
)

type Mail struct {
	From    string
	To      string
	Subject string
	Body    string
}

var subjects = map[EventType]string{
	BookingRequested: "New lesson request",
	BookingConfirmed: "Your lesson is confirmed",
	BookingCancelled: "A lesson was cancelled",
	BookingCompleted: "Lesson completed",
	BookingNoShow:    "Lesson marked as no-show",
	BookingReopened:  "A lesson was reopened",
	ReceiptSubmitted: "Payment receipt submitted",
	ReceiptApproved:  "Payment approved",
	ReceiptRejected:  "Payment receipt rejected",
	MessageReceived:  "You have a new message",
	ReviewPublished:  "You received a new review",
}

var bodyTemplate = template.Must(template.New("mail").Parse(`Hi {{.RecipientName}},

{{.Summary}}
{{- if .BookingID}}

Booking #{{.BookingID}}
{{- end}}
{{- range $k, $v := .Data}}
{{$k}}: {{$v}}
{{- end}}
`))

// Mailer renders notification e-mails. Delivery is logged; no SMTP relay is
// configured.
type Mailer struct {
	from string
	log  *zap.Logger
}

func NewMailer(from string, log *zap.Logger) *Mailer {
	return &Mailer{from: from, log: log}
}

func (m *Mailer) Render(ev Event) (Mail, error) {
	subject, ok := subjects[ev.Type]
	if !ok {
		return Mail{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.RecipientEmail == "" {
		return Mail{}, fmt.Errorf("event %s has no recipient", ev.Type)
	}

	var body strings.Builder
	if err := bodyTemplate.Execute(&body, struct {
		Event
		Summary string
	}{ev, subject + "."}); err != nil {
		return Mail{}, fmt.Errorf("render %s: %w", ev.Type, err)
	}

	return Mail{
		From:    m.from,
		To:      ev.RecipientEmail,
		Subject: subject,
		Body:    body.String(),
	}, nil
}

// Send satisfies Handler.
func (m *Mailer) Send(_ context.Context, ev Event) error {
	mail, err := m.Render(ev)
	if err != nil {
		return err
	}

	m.log.Info("mail sent",
		zap.String("to", mail.To),
		zap.String("subject", mail.Subject),
		zap.Int("body_bytes", len(mail.Body)),
	)
	return nil
}
