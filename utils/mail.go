package utils

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Mailer delivers a plain text message to one recipient.
type Mailer interface {
	Send(ctx context.Context, subject, recipient, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends through an SMTP server, upgrading to STARTTLS when offered.
type SMTPMailer struct {
	cfg      SMTPConfig
	sendMail sendMailFunc
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, sendMail: smtp.SendMail}
}

func (m *SMTPMailer) Send(_ context.Context, subject, recipient, body string) error {
	message := fmt.Sprintf(
		"From: BookBuy <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/plain; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		recipient,
		subject,
		body,
	)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	if err := m.sendMail(addr, auth, m.cfg.From, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// APIMailer posts messages to an HTTP mail relay.
type APIMailer struct {
	client *resty.Client
	from   string
}

type apiMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func NewAPIMailer(baseURL, apiKey, from string) *APIMailer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	return &APIMailer{client: client, from: from}
}

func (m *APIMailer) Send(ctx context.Context, subject, recipient, body string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(apiMessage{From: m.from, To: []string{recipient}, Subject: subject, Text: body}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("failed to reach mail relay: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail relay rejected message with status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// LogMailer only logs messages. Used when no mail transport is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, subject, recipient, body string) error {
	m.log.Info("Email not sent, no transport configured",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// MailDispatcher delivers mail off the request path. Delivery is best effort:
// failures are logged and never reported to the caller.
type MailDispatcher struct {
	mailer  Mailer
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewMailDispatcher(mailer Mailer, log *zap.Logger) *MailDispatcher {
	return &MailDispatcher{mailer: mailer, log: log, timeout: 30 * time.Second}
}

func (d *MailDispatcher) SendAsync(subject, recipient, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.mailer.Send(ctx, subject, recipient, body); err != nil {
			d.log.Warn("Error sending email", zap.String("recipient", recipient), zap.Error(err))
			return
		}
		d.log.Info("Email sent", zap.String("recipient", recipient), zap.String("subject", subject))
	}()
}

// Wait blocks until queued deliveries finish.
func (d *MailDispatcher) Wait() {
	d.wg.Wait()
}
