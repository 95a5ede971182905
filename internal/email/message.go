package email

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

// buildMsg converts a Message into a MIME message from the given sender
func buildMsg(fromAddress, fromName string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	var err error
	if fromName != "" {
		err = m.FromFormat(fromName, fromAddress)
	} else {
		err = m.From(fromAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("failed to set to: %w", err)
	}
	m.Subject(msg.Subject)

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		// Multipart alternative (text + HTML)
		m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	}

	return m, nil
}
