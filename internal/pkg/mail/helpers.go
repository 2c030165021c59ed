package mail

import (
	"github.com/rwtnews/site/internal/config"
)

// BuildMailConfig constructs a mail.Config from the application config so
// every caller builds the sender the same way.
func BuildMailConfig(cfg *config.AppConfig) Config {
	if cfg == nil {
		return Config{}
	}
	m := cfg.Mail
	return Config{
		Provider:    m.Provider,
		From:        m.From,
		FromName:    m.FromName,
		ReplyTo:     m.ReplyTo,
		SendGridKey: m.SendGridKey,
		ResendKey:   m.ResendKey,
		Host:        m.SMTP.Host,
		Port:        m.SMTP.Port,
		User:        m.SMTP.User,
		Pass:        m.SMTP.Pass,
	}
}
