package mail

import (
	"fmt"
	"strings"
	"time"
)

type Contact struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactMessage addresses a contact form submission to the site owner with
// the visitor as reply-to.
func ContactMessage(to string, c Contact) Message {
	subject := strings.TrimSpace(c.Subject)
	if subject == "" {
		subject = "New message from your portfolio"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\n\n", c.Name, c.Email)
	b.WriteString(c.Message)
	b.WriteString("\n")
	return Message{
		To:      []string{to},
		ReplyTo: c.Email,
		Subject: "[Contact] " + subject,
		Text:    b.String(),
	}
}

// UsageLimitMessage tells the owner a client hit the AI daily limit.
func UsageLimitMessage(to, clientKey, kind string, limit int, at time.Time) Message {
	short := clientKey
	if len(short) > 12 {
		short = short[:12]
	}
	text := fmt.Sprintf(
		"A visitor reached the daily AI %s limit (%d requests).\n\nClient: %s\nTime: %s\n",
		kind, limit, short, at.UTC().Format(time.RFC3339),
	)
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[AI] %s limit reached", kind),
		Text:    text,
	}
}
