// Package newsletter handles newsletter signups: validate, record the
// subscription in the CMS, send the welcome email.
package newsletter

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rwtnews/site/internal/pkg/mail"
	"go.uber.org/zap"
)

// subscriptionsPath is relative to the CMS /api root.
const subscriptionsPath = "/subscriptions"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrNotConfigured = errors.New("newsletter: mail provider is not configured")
	ErrInvalidEmail  = errors.New("newsletter: invalid email address")
)

// CMS records subscriptions.
type CMS interface {
	Post(ctx context.Context, path string, payload, out any) error
}

// Mailer sends the welcome email.
type Mailer interface {
	Configured() bool
	SendWelcome(ctx context.Context, to string, data mail.WelcomeData) error
}

type Service struct {
	cms    CMS
	mailer Mailer
	site   mail.WelcomeData
	log    *zap.Logger
}

func NewService(cms CMS, mailer Mailer, site mail.WelcomeData, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cms: cms, mailer: mailer, site: site, log: log}
}

// ValidEmail reports whether email looks like an address. Matching is done
// on the lower-cased value.
func ValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(strings.ToLower(email))
}

// Subscribe records email in the CMS and sends the welcome message. A
// failure recording the subscription is logged and does not stop the send.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	if s.mailer == nil || !s.mailer.Configured() {
		return ErrNotConfigured
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}

	if s.cms != nil {
		payload := map[string]any{"data": map[string]string{"email": email}}
		if err := s.cms.Post(ctx, subscriptionsPath, payload, nil); err != nil {
			s.log.Error("save subscription to cms failed", zap.String("email", email), zap.Error(err))
		}
	}

	return s.mailer.SendWelcome(ctx, email, s.site)
}
