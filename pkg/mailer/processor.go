package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-service/pkg/helpers"
	tpl "github.com/oksasatya/go-auth-service/pkg/mailer/templates"
)

// Processor turns queued EmailJobs into sent emails.
type Processor struct {
	Sender Sender
	Logger *logrus.Logger
}

func NewProcessor(sender Sender, logger *logrus.Logger) *Processor {
	return &Processor{Sender: sender, Logger: logger}
}

// Handle decodes, renders and sends one job. Jobs that can never succeed
// (bad JSON, no recipient, unknown template) wrap helpers.ErrDropMessage.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("decode job: %v: %w", err, helpers.ErrDropMessage)
	}
	job.To = strings.TrimSpace(job.To)
	if job.To == "" {
		return fmt.Errorf("job has no recipient: %w", helpers.ErrDropMessage)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		if job.Data == nil {
			job.Data = map[string]any{}
		}
		if v, ok := job.Data["Email"]; !ok || fmt.Sprint(v) == "" {
			job.Data["Email"] = job.To
		}
		s, t, h, err := tpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("render %s: %v: %w", job.Template, err, helpers.ErrDropMessage)
		}
		subject, text, html = s, t, h
	}

	if err := p.Sender.Send(ctx, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	}
	return nil
}
