package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/pkg/mailer/templates"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string) error {
	args := m.Called(ctx, to, subject, text, html)
	return args.Error(0)
}

func newWorker(s Sender) *Worker {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &Worker{Sender: s, Logger: l}
}

func TestWorker_RendersResetPIN(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, "ana@example.com", mock.MatchedBy(func(subject string) bool {
		return subject != ""
	}), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "482913")
	}), mock.Anything).Return(nil).Once()

	data := templates.ToMap(templates.NewResetPINData(templates.Branding{AppName: "Dashboard"}, "Ana", "ana@example.com", "482913",
		time.Date(2025, 5, 1, 10, 15, 0, 0, time.UTC)))
	body, err := json.Marshal(EmailJob{To: "ana@example.com", Template: templates.ResetPIN, Data: data})
	require.NoError(t, err)

	require.NoError(t, newWorker(s).Handle(context.Background(), body))
	s.AssertExpectations(t)
}

func TestWorker_PermanentFailures(t *testing.T) {
	w := newWorker(&mockSender{})
	ctx := context.Background()

	assert.ErrorIs(t, w.Handle(ctx, []byte("{not json")), ErrBadJob)
	assert.ErrorIs(t, w.Handle(ctx, []byte(`{"template":"welcome"}`)), ErrBadJob)
	assert.ErrorIs(t, w.Handle(ctx, []byte(`{"to":"a@b.c","template":"nope"}`)), ErrBadJob)
	assert.ErrorIs(t, w.Handle(ctx, []byte(`{"to":"a@b.c"}`)), ErrBadJob)
}

func TestWorker_SendFailureIsRetryable(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, "a@b.c", "Hi", "body", "").Return(errors.New("mailgun down"))

	err := newWorker(s).Handle(context.Background(), []byte(`{"to":"a@b.c","subject":"Hi","text":"body"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadJob)
}
