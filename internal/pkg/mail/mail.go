package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/smtp"
	"strings"
	"time"
)

const (
	ProviderSendGrid = "sendgrid"
	ProviderResend   = "resend"
	ProviderSMTP     = "smtp"

	sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"
	resendEndpoint   = "https://api.resend.com/emails"
)

// Config holds mail provider settings (matches AppConfig.Mail).
type Config struct {
	Provider    string
	From        string
	FromName    string
	ReplyTo     string
	SendGridKey string
	ResendKey   string
	Host        string
	Port        int
	User        string
	Pass        string

	// Endpoint overrides the provider API URL; used by tests.
	Endpoint   string
	HTTPClient *http.Client
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Sender sends emails via SendGrid, Resend or SMTP.
type Sender struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Sender {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return &Sender{cfg: cfg, http: hc}
}

// Configured reports whether the selected provider has a sender address
// and credentials.
func (s *Sender) Configured() bool {
	if s == nil || strings.TrimSpace(s.cfg.From) == "" {
		return false
	}
	switch s.cfg.Provider {
	case ProviderSendGrid:
		return s.cfg.SendGridKey != ""
	case ProviderResend:
		return s.cfg.ResendKey != ""
	case ProviderSMTP:
		return s.cfg.Host != ""
	}
	return false
}

// Send dispatches an email through the configured provider.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.Configured() {
		return fmt.Errorf("mail: provider %q is not configured", s.cfg.Provider)
	}
	switch s.cfg.Provider {
	case ProviderSendGrid:
		return s.sendSendGrid(ctx, msg)
	case ProviderResend:
		return s.sendResend(ctx, msg)
	default:
		return s.sendSMTP(msg)
	}
}

func (s *Sender) fromHeader() string {
	if s.cfg.FromName == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
}

// sendSMTP sends via net/smtp.
func (s *Sender) sendSMTP(msg Message) error {
	host := s.cfg.Host
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", s.fromHeader()))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if s.cfg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", s.cfg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)
	}
	return smtp.SendMail(addr, auth, s.cfg.From, msg.To, body.Bytes())
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgMessage struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	ReplyTo          *sgAddress          `json:"reply_to,omitempty"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

// sendSendGrid sends via the SendGrid v3 mail API.
func (s *Sender) sendSendGrid(ctx context.Context, msg Message) error {
	to := make([]sgAddress, len(msg.To))
	for i, addr := range msg.To {
		to[i] = sgAddress{Email: addr}
	}
	payload := sgMessage{
		Personalizations: []sgPersonalization{{To: to}},
		From:             sgAddress{Email: s.cfg.From, Name: s.cfg.FromName},
		Subject:          msg.Subject,
	}
	if s.cfg.ReplyTo != "" {
		payload.ReplyTo = &sgAddress{Email: s.cfg.ReplyTo}
	}
	if msg.Text != "" {
		payload.Content = append(payload.Content, sgContent{Type: "text/plain", Value: msg.Text})
	}
	payload.Content = append(payload.Content, sgContent{Type: "text/html", Value: msg.HTML})

	return s.postJSON(ctx, s.endpoint(sendGridEndpoint), s.cfg.SendGridKey, payload, "sendgrid")
}

// sendResend sends via the Resend HTTP API.
func (s *Sender) sendResend(ctx context.Context, msg Message) error {
	payload := map[string]any{
		"from":    s.fromHeader(),
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if msg.Text != "" {
		payload["text"] = msg.Text
	}
	if s.cfg.ReplyTo != "" {
		payload["reply_to"] = s.cfg.ReplyTo
	}
	return s.postJSON(ctx, s.endpoint(resendEndpoint), s.cfg.ResendKey, payload, "resend")
}

func (s *Sender) endpoint(def string) string {
	if s.cfg.Endpoint != "" {
		return s.cfg.Endpoint
	}
	return def
}

func (s *Sender) postJSON(ctx context.Context, url, key string, payload any, provider string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s error %d: %s", provider, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

const welcomeTpl = `<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
    <h2 style="text-align: center; color: #B22234;">Thank You for Subscribing!</h2>
    <p>You're now on the list to receive the latest news, opinions, and updates directly to your inbox.</p>
    <p>We're excited to have you as part of the {{.SiteName}} community.</p>
    <p style="text-align: center; margin-top: 30px;">
      <a href="{{.SiteURL}}" style="background-color: #3C3B6E; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Visit Our Website</a>
    </p>
    <p style="font-size: 0.8em; text-align: center; color: #777; margin-top: 20px;">
      You can manage your subscription preferences or unsubscribe at any time.
    </p>
    <p style="font-size: 0.7em; text-align: center; color: #aaa;">&copy;{{year}} {{.SiteName}}</p>
  </div>
</div>`

// WelcomeData is the data for the newsletter welcome email.
type WelcomeData struct {
	SiteName string
	SiteURL  string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendWelcome sends the newsletter confirmation to a new subscriber.
func (s *Sender) SendWelcome(ctx context.Context, to string, data WelcomeData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Red, White and True News"
	}
	if strings.TrimSpace(data.SiteURL) == "" {
		data.SiteURL = "http://localhost:3000"
	}
	html, err := renderTemplate(welcomeTpl, data)
	if err != nil {
		return err
	}
	return s.Send(ctx, Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Welcome to the %s Newsletter!", data.SiteName),
		HTML:    html,
		Text:    fmt.Sprintf("Thank you for subscribing to %s. Visit us at %s", data.SiteName, data.SiteURL),
	})
}
