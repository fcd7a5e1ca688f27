// Package mail delivers the HTML daily summary over SMTP. Settings come
// from the environment (optionally a .env file); both the SMTP_* names and
// the EMAIL_* secret names used by CI are honored.
package mail

import (
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds SMTP delivery settings.
type Config struct {
	Host       string
	Port       int
	User       string
	Pass       string
	From       string
	Recipients []string
}

// Addr returns the host:port dial address.
func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// FromEnv loads delivery settings from the environment, reading a .env file
// when one is present. Recipients accept a comma separated list and default
// to the sender when unset. Missing required settings are reported together.
func FromEnv() (Config, error) {
	// A missing .env file is fine: production relies on real env vars.
	_ = godotenv.Load()

	c := Config{
		Host: env("SMTP_HOST"),
		User: first(env("SMTP_USER"), env("EMAIL_ADDRESS")),
		Pass: first(env("SMTP_PASS"), env("EMAIL_APP_PASSWORD")),
	}
	c.From = first(env("EMAIL_FROM"), c.User)
	c.Port = 587
	if p := env("SMTP_PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SMTP_PORT %q: %w", p, err)
		}
		c.Port = port
	}
	for _, r := range strings.Split(first(env("EMAIL_TO"), env("EMAIL_RECIPIENTS")), ",") {
		if r = strings.TrimSpace(r); r != "" {
			c.Recipients = append(c.Recipients, r)
		}
	}
	if len(c.Recipients) == 0 && c.From != "" {
		c.Recipients = []string{c.From}
	}

	var missing []string
	for _, s := range []struct{ name, value string }{
		{"SMTP_HOST", c.Host},
		{"SMTP_USER", c.User},
		{"SMTP_PASS", c.Pass},
	} {
		if s.value == "" {
			missing = append(missing, s.name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing SMTP settings: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

// Send delivers an HTML body to every configured recipient.
func Send(c Config, subject, htmlBody string) error {
	msg := Message(c, subject, htmlBody)
	auth := smtp.PlainAuth("", c.User, c.Pass, c.Host)
	if err := smtp.SendMail(c.Addr(), auth, c.From, c.Recipients, msg); err != nil {
		return fmt.Errorf("cannot send summary mail: %w", err)
	}
	return nil
}

// Message builds the RFC 5322 message with an HTML body.
func Message(c Config, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(c.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func env(name string) string { return strings.TrimSpace(os.Getenv(name)) }

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
