package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name  string `json:"Name"`
	Email string `json:"Email"`
	Type  string `json:"Type"`

	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	LogoURL    string `json:"LogoURL"`
	SupportURL string `json:"SupportURL"`
	ResetURL   string `json:"ResetURL"`
	LoginURL   string `json:"LoginURL"`

	Code          string    `json:"Code"`
	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	ExpiresInText string    `json:"ExpiresInText"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if reflect.DeepEqual(value, reflect.Zero(rv.Type()).Interface()) {
			return fallback
		}
		return value
	}
}

func funcs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

// Template names.
const (
	ResetPIN = "reset_pin"
	Welcome  = "welcome"
)

// Subjects and plain-text bodies share one text/template set; HTML bodies get auto-escaping.
var (
	textSet = texttpl.Must(texttpl.New("email").Funcs(funcs()).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("email").Funcs(funcs()).ParseFS(FS, "*.html.tmpl"))
)

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

func execText(file string, data any) (string, error) {
	t := textSet.Lookup(file)
	if t == nil {
		return "", fmt.Errorf("template %q not found", file)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

// Render executes the subject, text and html templates registered under name.
func Render(name string, data any) (Message, error) {
	subject, err := execText(name+".subject.tmpl", data)
	if err != nil {
		return Message{}, err
	}
	text, err := execText(name+".text.tmpl", data)
	if err != nil {
		return Message{}, err
	}
	t := htmlSet.Lookup(name + ".html.tmpl")
	if t == nil {
		return Message{}, fmt.Errorf("template %q not found", name+".html.tmpl")
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("exec %q: %w", name+".html.tmpl", err)
	}
	return Message{Subject: strings.TrimSpace(subject), Text: text, HTML: buf.String()}, nil
}
