package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notification is a single message to deliver. To is a mailbox for email and ignored by the chat webhook.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers notifications. Implementations make one attempt bounded by ctx.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

var (
	mailNotifier Notifier = LogNotifier{}
	chatNotifier Notifier = LogNotifier{}
)

// InitNotifiers sets up email delivery when SMTP_HOST is set and the chat webhook when
// CHAT_WEBHOOK_URL is set. Unconfigured channels only log the messages.
func InitNotifiers(cfg *config.Config) {
	if cfg.SMTPHost != "" {
		mailNotifier = NewEmailNotifier(cfg)
	} else {
		utils.GetLogger().Info("SMTP_HOST not set, emails will only be logged")
		mailNotifier = LogNotifier{}
	}

	if cfg.ChatWebhookURL != "" {
		chatNotifier = NewWebhookNotifier(cfg.ChatWebhookURL, cfg.NotifyTimeout)
	} else {
		utils.GetLogger().Info("CHAT_WEBHOOK_URL not set, chat notifications will only be logged")
		chatNotifier = LogNotifier{}
	}
}

// GetMailNotifier returns the notifier used for customer emails
func GetMailNotifier() Notifier {
	return mailNotifier
}

// SetMailNotifier sets the mail notifier (primarily for testing)
func SetMailNotifier(n Notifier) {
	mailNotifier = n
}

// GetChatNotifier returns the notifier used for professional reminders and admin notices
func GetChatNotifier() Notifier {
	return chatNotifier
}

// SetChatNotifier sets the chat notifier (primarily for testing)
func SetChatNotifier(n Notifier) {
	chatNotifier = n
}

// EmailNotifier sends HTML emails over SMTP
type EmailNotifier struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
}

// NewEmailNotifier creates an email notifier from the SMTP settings
func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:    cfg.MailFrom,
		timeout: cfg.NotifyTimeout,
	}
}

// Notify sends n as an email to n.To
func (e *EmailNotifier) Notify(ctx context.Context, n Notification) error {
	if n.To == "" {
		return fmt.Errorf("email notification has no recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/html", n.Body)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// gomail has no context support, so the send is abandoned once ctx is done
	done := make(chan error, 1)
	go func() {
		done <- e.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email to %s not sent: %w", n.To, ctx.Err())
	}
}

// WebhookNotifier posts notifications to a chat webhook as {"text": ...}
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier creates a webhook notifier with a bounded HTTP client
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type webhookMessage struct {
	Text string `json:"text"`
}

// Notify posts n to the webhook
func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	text := n.Body
	if n.Subject != "" {
		text = n.Subject + "\n" + n.Body
	}
	payload, err := json.Marshal(webhookMessage{Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// LogNotifier writes notifications to the application log
type LogNotifier struct{}

// Notify logs n
func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	utils.GetLogger().Info("notification",
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body))
	return nil
}
