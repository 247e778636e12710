package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/pkg/mailer/templates"
)

// ErrBadJob marks a message that can never be delivered and must not be requeued.
var ErrBadJob = errors.New("bad email job")

// Worker turns queued jobs into sent mail.
type Worker struct {
	Sender Sender
	Logger *logrus.Logger
}

// Handle decodes, renders and sends one job. Errors wrapping ErrBadJob are permanent.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		msg, err := templates.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadJob, err)
		}
		subject, text, html = msg.Subject, msg.Text, msg.HTML
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrBadJob)
	}
	if err := w.Sender.Send(ctx, job.To, strings.TrimSpace(subject), text, html); err != nil {
		return err
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return nil
}
