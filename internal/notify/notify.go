package notify

import (
	"context"
	"fmt"

	"opportunity-alerts/internal/models"

	"go.uber.org/zap"
)

// DueOpportunity pairs an opportunity with its remaining lead time at
// dispatch.
type DueOpportunity struct {
	Opportunity models.Opportunity
	DaysUntil   int
}

// Digest is one user's alert batch for a dispatch run.
type Digest struct {
	Profile       models.UserProfile
	Opportunities []DueOpportunity
}

// Notifier delivers a digest over one channel.
type Notifier interface {
	Send(ctx context.Context, digest Digest) error
}

// Registry selects the delivery channel for a profile's
// notification_method.
type Registry struct {
	email  Notifier
	slack  Notifier
	logger *zap.Logger
}

func NewRegistry(email, slack Notifier, logger *zap.Logger) *Registry {
	return &Registry{
		email:  email,
		slack:  slack,
		logger: logger,
	}
}

// ForMethod returns the notifier for a notification method. Method
// "none" and anything unrecognized map to a no-op sender: an unknown
// method has already been flagged by validation and must not break
// dispatch for other users.
func (r *Registry) ForMethod(method string) Notifier {
	switch method {
	case models.MethodEmail:
		if r.email != nil {
			return r.email
		}
	case models.MethodSlack:
		if r.slack != nil {
			return r.slack
		}
	case models.MethodNone:
		return noopNotifier{}
	}

	r.logger.Warn("no notifier for method, skipping delivery",
		zap.String("method", method),
	)
	return noopNotifier{}
}

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, digest Digest) error {
	return nil
}

// errMissingTarget reports a profile that passed validation but lacks
// the address its channel needs at send time.
func errMissingTarget(field, username string) error {
	return fmt.Errorf("no %s for user %s", field, username)
}
