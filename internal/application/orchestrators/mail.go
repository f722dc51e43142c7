package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	emailAdapter "dkl/internal/adapters/email"
	domainOutbox "dkl/internal/domain/outbox"
)

// Messages shown to visitors after a submit.
const (
	MsgContactSent      = "Bedankt voor je bericht! We nemen zo snel mogelijk contact met je op."
	MsgRegistrationSent = "Bedankt voor je aanmelding! Je ontvangt een bevestiging per e-mail."
	MsgSubmitFailed     = "Er ging iets mis bij het versturen van het formulier"
)

var mailTemplates = template.Must(template.New("mail").Parse(`
{{define "contact_confirmation"}}<p>Beste {{.Naam}},</p>
<p>Bedankt voor je bericht aan De Koninklijke Loop. We nemen zo snel mogelijk contact met je op.</p>
<blockquote>{{.Bericht}}</blockquote>
<p>Met vriendelijke groet,<br>Het team van De Koninklijke Loop</p>{{end}}

{{define "contact_notification"}}<p>Nieuw bericht via het contactformulier.</p>
<p><strong>Naam:</strong> {{.Naam}}<br><strong>E-mail:</strong> {{.Email}}</p>
<blockquote>{{.Bericht}}</blockquote>{{end}}

{{define "registration_confirmation"}}<p>Beste {{.Naam}},</p>
<p>Je aanmelding voor De Koninklijke Loop is ontvangen.</p>
<ul>
<li>Rol: {{.Rol}}</li>{{if .Afstand}}
<li>Afstand: {{.Afstand}}</li>{{end}}
<li>Ondersteuning: {{.Ondersteuning}}</li>{{if .Bijzonderheden}}
<li>Bijzonderheden: {{.Bijzonderheden}}</li>{{end}}
</ul>
<p>Tot ziens op de dag van de loop!</p>{{end}}

{{define "registration_notification"}}<p>Nieuwe aanmelding: <strong>{{.Naam}}</strong> ({{.Email}})</p>
<p>Rol: {{.Rol}}{{if .Afstand}}, afstand: {{.Afstand}}{{end}}{{if .Telefoon}}, telefoon: {{.Telefoon}}{{end}}</p>
<p>Ondersteuning: {{.Ondersteuning}}{{if .Bijzonderheden}} ({{.Bijzonderheden}}){{end}}</p>{{end}}
`))

func renderMail(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// OutboxWriter is the outbox capability submit flows need.
type OutboxWriter interface {
	Save(ctx context.Context, e domainOutbox.Entry) error
}

// queueEmails stores messages that could not be sent so the outbox worker
// can retry them. Failures are logged; the submit has already been saved.
func queueEmails(ctx context.Context, outbox OutboxWriter, reqs []emailAdapter.SendRequest, ref string, newID func() string, now time.Time) {
	if outbox == nil {
		return
	}
	for _, req := range reqs {
		entry, err := domainOutbox.NewEmail(newID(), domainOutbox.EmailPayload{
			To:      req.To,
			Subject: req.Subject,
			HTML:    req.HTML,
			ReplyTo: req.ReplyTo,
			Ref:     ref,
		}, now)
		if err == nil {
			err = outbox.Save(ctx, entry)
		}
		if err != nil {
			slog.Error("outbox_queue_failed", "ref", ref, "subject", req.Subject, "error", err)
			continue
		}
		slog.Info("outbox_queued", "entry_id", entry.ID, "ref", ref)
	}
}
