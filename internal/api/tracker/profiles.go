package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"opportunity-alerts/internal/models"

	"go.uber.org/zap"
)

func (c *Client) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	data, err := c.get(ctx, "/users/profiles/", nil)
	if err != nil {
		c.logger.Error("failed to list profiles", zap.Error(err))
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles, _, err := decodeList[models.UserProfile](data)
	if err != nil {
		c.logger.Error("failed to parse profile list", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("profiles listed", zap.Int("count", len(profiles)))

	return profiles, nil
}

// GetProfile fetches one profile by username. A missing profile is
// reported as ErrNotFound.
func (c *Client) GetProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	path := fmt.Sprintf("/users/profiles/%s/", url.PathEscape(username))

	data, err := c.get(ctx, path, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		c.logger.Error("failed to get profile",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var profile models.UserProfile
	if err := c.parseResponse(data, &profile); err != nil {
		c.logger.Error("failed to parse profile", zap.Error(err))
		return nil, err
	}

	return &profile, nil
}

// UpsertProfile updates the profile by username and falls back to
// creating it only when the update reports ErrNotFound. Any other
// failure propagates: treating a transport error as "absent" would risk
// duplicate records.
func (c *Client) UpsertProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	path := fmt.Sprintf("/users/profiles/%s/", url.PathEscape(profile.Username))

	data, err := c.put(ctx, path, profile)
	if errors.Is(err, ErrNotFound) {
		c.logger.Debug("profile absent, creating",
			zap.String("username", profile.Username),
		)
		data, err = c.post(ctx, "/users/profiles/", profile)
	}
	if err != nil {
		c.logger.Error("failed to upsert profile",
			zap.String("username", profile.Username),
			zap.Error(err),
		)
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	var saved models.UserProfile
	if err := c.parseResponse(data, &saved); err != nil {
		return nil, err
	}

	c.logger.Info("profile saved", zap.String("username", saved.Username))

	return &saved, nil
}
