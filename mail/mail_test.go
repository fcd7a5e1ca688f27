package mail

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS",
		"EMAIL_ADDRESS", "EMAIL_APP_PASSWORD", "EMAIL_FROM",
		"EMAIL_TO", "EMAIL_RECIPIENTS",
	} {
		t.Setenv(name, "")
	}
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "reporter@example.com")
	t.Setenv("SMTP_PASS", "hunter2")
	t.Setenv("EMAIL_TO", "a@example.com, b@example.com")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Addr() != "smtp.example.com:587" {
		t.Errorf("Addr() = %q, want smtp.example.com:587", c.Addr())
	}
	if c.From != "reporter@example.com" {
		t.Errorf("From = %q, want the user", c.From)
	}
	want := []string{"a@example.com", "b@example.com"}
	if len(c.Recipients) != 2 || c.Recipients[0] != want[0] || c.Recipients[1] != want[1] {
		t.Errorf("Recipients = %v, want %v", c.Recipients, want)
	}
}

func TestFromEnvSecretNames(t *testing.T) {
	// The EMAIL_* names used by CI secrets are honored as aliases.
	clearEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_ADDRESS", "reporter@example.com")
	t.Setenv("EMAIL_APP_PASSWORD", "hunter2")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.User != "reporter@example.com" || c.Pass != "hunter2" {
		t.Errorf("User/Pass = %q/%q, want the EMAIL_* values", c.User, c.Pass)
	}
	// Recipients default to the sender.
	if len(c.Recipients) != 1 || c.Recipients[0] != "reporter@example.com" {
		t.Errorf("Recipients = %v, want the sender", c.Recipients)
	}
}

func TestFromEnvCustomPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "u")
	t.Setenv("SMTP_PASS", "p")
	t.Setenv("SMTP_PORT", "2525")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Port != 2525 {
		t.Errorf("Port = %d, want 2525", c.Port)
	}

	t.Setenv("SMTP_PORT", "not-a-port")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for malformed SMTP_PORT")
	}
}

func TestFromEnvMissingSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")

	_, err := FromEnv()
	if err == nil {
		t.Fatal("expected error when user and pass are unset")
	}
	for _, want := range []string{"SMTP_USER", "SMTP_PASS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should name %s", err, want)
		}
	}
	if strings.Contains(err.Error(), "SMTP_HOST") {
		t.Errorf("error %q should not name the host that is set", err)
	}
}

func TestMessage(t *testing.T) {
	c := Config{
		From:       "reporter@example.com",
		Recipients: []string{"a@example.com", "b@example.com"},
	}
	msg := string(Message(c, "Daily Portfolio Summary 2026-08-30", "<html><body>hi</body></html>"))

	header, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatal("message lacks the blank line between headers and body")
	}
	for _, want := range []string{
		"From: reporter@example.com",
		"To: a@example.com, b@example.com",
		"Subject: Daily Portfolio Summary 2026-08-30",
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	} {
		if !strings.Contains(header, want) {
			t.Errorf("headers lack %q", want)
		}
	}
	if body != "<html><body>hi</body></html>" {
		t.Errorf("body = %q", body)
	}
}
