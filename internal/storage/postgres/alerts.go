package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RecordAlert logs one delivered alert for a (username, opportunity)
// pair. The table carries a unique constraint on the pair.
func (s *Store) RecordAlert(ctx context.Context, username string, opportunityID int64, sentAt time.Time) error {
	_, err := s.sess.
		InsertInto("alert_log").
		Columns("username", "opportunity_id", "sent_at").
		Values(username, opportunityID, sentAt).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to record alert",
			zap.String("username", username),
			zap.Int64("opportunity_id", opportunityID),
			zap.Error(err),
		)
		return fmt.Errorf("record alert: %w", err)
	}

	s.logger.Info("alert recorded",
		zap.String("username", username),
		zap.Int64("opportunity_id", opportunityID),
	)

	return nil
}

// WasAlerted reports whether the user has already been alerted about the
// opportunity.
func (s *Store) WasAlerted(ctx context.Context, username string, opportunityID int64) (bool, error) {
	var count int

	err := s.sess.
		Select("COUNT(*)").
		From("alert_log").
		Where("username = ? AND opportunity_id = ?", username, opportunityID).
		LoadOneContext(ctx, &count)

	if err != nil && err != sql.ErrNoRows {
		s.logger.Error("failed to check alert log",
			zap.String("username", username),
			zap.Int64("opportunity_id", opportunityID),
			zap.Error(err),
		)
		return false, fmt.Errorf("check alert log: %w", err)
	}

	return count > 0, nil
}

// PruneAlerts drops log rows older than the cutoff so the table does not
// grow without bound.
func (s *Store) PruneAlerts(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sess.
		DeleteFrom("alert_log").
		Where("sent_at < ?", before).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to prune alerts", zap.Error(err))
		return 0, fmt.Errorf("prune alerts: %w", err)
	}

	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune alerts: %w", err)
	}

	if pruned > 0 {
		s.logger.Info("alert log pruned", zap.Int64("rows", pruned))
	}

	return pruned, nil
}
