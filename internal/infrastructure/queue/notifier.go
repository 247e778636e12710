package queue

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/mailer"
	"github.com/oksasatya/go-dashboard-api/pkg/mailer/templates"
)

// Publisher is the part of RabbitPublisher the notifier needs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier queues templated emails for the email worker.
// A nil Publisher disables sending; jobs are only logged.
type EmailNotifier struct {
	Publisher Publisher
	Branding  templates.Branding
	Logger    *logrus.Logger
}

func NewEmailNotifier(pub Publisher, branding templates.Branding, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{Publisher: pub, Branding: branding, Logger: helpers.OrNop(logger)}
}

func (n *EmailNotifier) SendResetPIN(ctx context.Context, email, name, pin string, expiresAt time.Time) error {
	data := templates.NewResetPINData(n.Branding, name, email, pin, expiresAt)
	return n.publish(ctx, email, templates.ResetPIN, data)
}

func (n *EmailNotifier) SendWelcome(ctx context.Context, email, name string) error {
	return n.publish(ctx, email, templates.Welcome, templates.NewWelcomeData(n.Branding, name, email))
}

func (n *EmailNotifier) publish(ctx context.Context, to, tpl string, data templates.EmailData) error {
	if n.Publisher == nil {
		n.Logger.WithFields(logrus.Fields{"to": to, "template": tpl}).Info("mail sending disabled, job dropped")
		return nil
	}
	job := mailer.EmailJob{To: to, Template: tpl, Data: templates.ToMap(data)}
	if err := n.Publisher.PublishJSON(ctx, job); err != nil {
		n.Logger.WithError(err).WithField("template", tpl).Error("publish email job")
		return err
	}
	return nil
}
