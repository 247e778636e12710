package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ResetPIN(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute)
	data := ToMap(NewResetPINData(Branding{AppName: "Focus", SupportURL: "https://help.example.com"}, "Ana", "ana@example.com", "123456", exp))

	msg, err := Render(ResetPIN, data)
	require.NoError(t, err)
	assert.Equal(t, "Focus: your password reset PIN", msg.Subject)
	assert.Contains(t, msg.Text, "123456")
	assert.Contains(t, msg.Text, "15 minutes")
	assert.Contains(t, msg.HTML, "ana@example.com")
}

func TestRender_WelcomeFallbacks(t *testing.T) {
	msg, err := Render(Welcome, ToMap(NewWelcomeData(Branding{}, "", "x@example.com")))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Dashboard", msg.Subject)
	assert.Contains(t, msg.Text, "Hi there")
	assert.Contains(t, msg.HTML, "Welcome, there!")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, 3, defaultFn("x", 3))
}
