package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opportunity-alerts/internal/config"
	"opportunity-alerts/internal/deadline"
	"opportunity-alerts/internal/models"
	"opportunity-alerts/internal/notify"
	"opportunity-alerts/internal/prefs"
	"opportunity-alerts/internal/storage/redis"

	"go.uber.org/zap"
)

// backendAPIRateLimit caps backend calls per minute across a run.
const backendAPIRateLimit = 50

// alertLogRetention is how long delivered-alert rows are kept before the
// end-of-run prune removes them.
const alertLogRetention = 60 * 24 * time.Hour

// API is the slice of the tracker client the dispatcher needs.
type API interface {
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
	ListUpcoming(ctx context.Context, now time.Time, days int) ([]models.Opportunity, error)
}

// AlertLog is the delivery log used to dedupe alerts.
type AlertLog interface {
	WasAlerted(ctx context.Context, username string, opportunityID int64) (bool, error)
	RecordAlert(ctx context.Context, username string, opportunityID int64, sentAt time.Time) error
	PruneAlerts(ctx context.Context, before time.Time) (int64, error)
}

// Cache is the slice of the redis layer the dispatcher needs.
type Cache interface {
	GetUpcoming(ctx context.Context, days int) ([]models.Opportunity, error)
	SetUpcoming(ctx context.Context, days int, items []models.Opportunity) error
	IncrementAPIRateLimit(ctx context.Context) (int64, error)
}

// Registry selects a delivery channel per notification method.
type Registry interface {
	ForMethod(method string) notify.Notifier
}

// Dispatcher sends deadline alerts to users whose configured alert hour
// matches the current hour.
type Dispatcher struct {
	api       API
	alertLog  AlertLog
	cache     Cache
	notifiers Registry
	config    *config.Config
	logger    *zap.Logger

	now func() time.Time
}

func New(
	api API,
	alertLog AlertLog,
	cache Cache,
	notifiers Registry,
	cfg *config.Config,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		api:       api,
		alertLog:  alertLog,
		cache:     cache,
		notifiers: notifiers,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the dispatcher's clock; tests pin the hour with it.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	d.logger.Info("alert dispatcher started",
		zap.Duration("interval", d.config.CheckInterval),
	)

	d.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("alert dispatcher stopped")
			return
		case <-ticker.C:
			d.RunOnce(ctx)
		}
	}
}

// RunOnce performs one dispatch pass over all profiles. Failures are
// isolated per user: one broken profile never blocks the rest.
func (d *Dispatcher) RunOnce(ctx context.Context) {
	now := d.now()

	d.logger.Info("starting alert dispatch", zap.Int("hour", now.Hour()))

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	profiles, err := d.api.ListProfiles(runCtx)
	if err != nil {
		d.logger.Error("failed to list profiles", zap.Error(err))
		return
	}

	dispatched := 0
	for _, profile := range profiles {
		sent, err := d.dispatchForUser(runCtx, profile, now)
		if err != nil {
			d.logger.Error("failed to dispatch alerts for user",
				zap.String("username", profile.Username),
				zap.Error(err),
			)
			continue
		}

		if sent > 0 {
			dispatched++
			time.Sleep(500 * time.Millisecond)
		}
	}

	if _, err := d.alertLog.PruneAlerts(runCtx, now.Add(-alertLogRetention)); err != nil {
		d.logger.Error("failed to prune alert log", zap.Error(err))
	}

	d.logger.Info("finished alert dispatch",
		zap.Int("profiles", len(profiles)),
		zap.Int("notified", dispatched),
	)
}

// dispatchForUser sends at most one digest to one user and returns the
// number of opportunities alerted.
func (d *Dispatcher) dispatchForUser(ctx context.Context, profile models.UserProfile, now time.Time) (int, error) {
	normalized, res := prefs.Validate(profile)
	if !res.OK() {
		d.logger.Warn("skipping profile with invalid preferences",
			zap.String("username", profile.Username),
			zap.Int("violations", len(res.Violations)),
		)
		return 0, nil
	}

	if !normalized.EnableNotifications || normalized.NotificationMethod == models.MethodNone {
		return 0, nil
	}

	alertAt, err := time.Parse("15:04", normalized.AlertTime)
	if err != nil {
		return 0, fmt.Errorf("parse alert time: %w", err)
	}
	if alertAt.Hour() != now.Hour() {
		return 0, nil
	}

	upcoming, err := d.upcomingFor(ctx, normalized.AlertDaysAhead, now)
	if err != nil {
		return 0, fmt.Errorf("fetch upcoming: %w", err)
	}

	wanted := make(map[string]bool, len(normalized.AlertTypes))
	for _, t := range normalized.AlertTypes {
		wanted[t] = true
	}

	var due []notify.DueOpportunity
	for _, opp := range upcoming {
		if !wanted[models.NormalizeType(opp.Type)] {
			continue
		}

		cls := deadline.ClassifyString(opp.Deadline, now)
		if cls.Unknown {
			d.logger.Warn("opportunity has unparseable deadline",
				zap.Int64("opportunity_id", opp.ID),
				zap.String("deadline", opp.Deadline),
				zap.Error(cls.Err),
			)
			continue
		}
		if cls.Status == deadline.StatusExpired || cls.DaysUntil > normalized.AlertDaysAhead {
			continue
		}

		alerted, err := d.alertLog.WasAlerted(ctx, normalized.Username, opp.ID)
		if err != nil {
			return 0, fmt.Errorf("check alert log: %w", err)
		}
		if alerted {
			continue
		}

		due = append(due, notify.DueOpportunity{Opportunity: opp, DaysUntil: cls.DaysUntil})
		if len(due) >= d.config.MaxAlertsPerRun {
			break
		}
	}

	if len(due) == 0 {
		return 0, nil
	}

	digest := notify.Digest{Profile: normalized, Opportunities: due}

	notifier := d.notifiers.ForMethod(normalized.NotificationMethod)
	if err := notifier.Send(ctx, digest); err != nil {
		return 0, fmt.Errorf("send digest: %w", err)
	}

	sentAt := d.now()
	for _, item := range due {
		if err := d.alertLog.RecordAlert(ctx, normalized.Username, item.Opportunity.ID, sentAt); err != nil {
			d.logger.Error("failed to record alert",
				zap.String("username", normalized.Username),
				zap.Int64("opportunity_id", item.Opportunity.ID),
				zap.Error(err),
			)
		}
	}

	d.logger.Info("alerts sent",
		zap.String("username", normalized.Username),
		zap.String("method", normalized.NotificationMethod),
		zap.Int("count", len(due)),
	)

	return len(due), nil
}

// upcomingFor fetches opportunities due within the lead time, through
// the short-lived redis cache so back-to-back users with the same lead
// time share one backend call.
func (d *Dispatcher) upcomingFor(ctx context.Context, days int, now time.Time) ([]models.Opportunity, error) {
	cached, err := d.cache.GetUpcoming(ctx, days)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		d.logger.Warn("upcoming cache read failed", zap.Error(err))
	}

	if count, err := d.cache.IncrementAPIRateLimit(ctx); err != nil {
		d.logger.Warn("rate limit check failed", zap.Error(err))
	} else if count > backendAPIRateLimit {
		return nil, fmt.Errorf("backend API rate limit exceeded: %d requests", count)
	}

	items, err := d.api.ListUpcoming(ctx, now, days)
	if err != nil {
		return nil, err
	}

	if err := d.cache.SetUpcoming(ctx, days, items); err != nil {
		d.logger.Warn("upcoming cache write failed", zap.Error(err))
	}

	return items, nil
}
