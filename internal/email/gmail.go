package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailConfig holds the configuration for the Gmail API sender.
type GmailConfig struct {
	// CredentialsJSON is the service account credentials JSON.
	CredentialsJSON string
	SenderAddress   string
	SenderName      string
}

// GmailSender implements Sender using the Gmail API.
type GmailSender struct {
	service       *gmail.Service
	senderAddress string
	senderName    string
}

// NewGmailSender creates a GmailSender from a service account with domain-wide
// delegation that impersonates the sender mailbox.
func NewGmailSender(ctx context.Context, cfg GmailConfig) (*GmailSender, error) {
	if cfg.CredentialsJSON == "" {
		return nil, fmt.Errorf("gmail: credentials JSON is required")
	}
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	jwtConfig, err := google.JWTConfigFromJSON([]byte(cfg.CredentialsJSON), gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to parse credentials: %w", err)
	}

	jwtConfig.Subject = cfg.SenderAddress

	client := jwtConfig.Client(ctx)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service:       svc,
		senderAddress: cfg.SenderAddress,
		senderName:    cfg.SenderName,
	}, nil
}

// NewGmailSenderWithToken creates a GmailSender using OAuth2 client credentials and a
// refresh token, which is how a personal Gmail account sends without an app password.
func NewGmailSenderWithToken(ctx context.Context, clientID, clientSecret, refreshToken, senderAddress, senderName string) (*GmailSender, error) {
	if senderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("gmail: client ID and secret are required with a refresh token")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
	}

	client := oauthCfg.Client(ctx, token)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service:       svc,
		senderAddress: senderAddress,
		senderName:    senderName,
	}, nil
}

// Send sends an email via the Gmail API.
func (g *GmailSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(g.senderAddress, g.senderName, msg)
	if err != nil {
		return fmt.Errorf("gmail: %w", err)
	}

	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		return fmt.Errorf("gmail: failed to encode message: %w", err)
	}

	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw.Bytes()),
	}

	_, err = g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail: failed to send email: %w", err)
	}

	return nil
}
