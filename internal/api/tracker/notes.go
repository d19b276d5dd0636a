package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"opportunity-alerts/internal/models"

	"go.uber.org/zap"
)

func (c *Client) ListNotes(ctx context.Context, username string) ([]models.UserOpportunityNote, error) {
	params := url.Values{}
	params.Set("user_profile", username)

	data, err := c.get(ctx, "/users/notes/", params)
	if err != nil {
		c.logger.Error("failed to list notes",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes, _, err := decodeList[models.UserOpportunityNote](data)
	if err != nil {
		c.logger.Error("failed to parse note list", zap.Error(err))
		return nil, err
	}

	return notes, nil
}

// GetNote fetches the unique note for a (username, opportunity) pair.
// The backend exposes notes as a filtered list; the first match is the
// note, an empty list is ErrNotFound.
func (c *Client) GetNote(ctx context.Context, username string, opportunityID int64) (*models.UserOpportunityNote, error) {
	params := url.Values{}
	params.Set("user_profile", username)
	params.Set("opportunity", strconv.FormatInt(opportunityID, 10))

	data, err := c.get(ctx, "/users/notes/", params)
	if err != nil {
		c.logger.Error("failed to get note",
			zap.String("username", username),
			zap.Int64("opportunity_id", opportunityID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get note: %w", err)
	}

	notes, _, err := decodeList[models.UserOpportunityNote](data)
	if err != nil {
		c.logger.Error("failed to parse note list", zap.Error(err))
		return nil, err
	}

	if len(notes) == 0 {
		return nil, ErrNotFound
	}

	return &notes[0], nil
}

// UpsertNote writes exactly one note per (username, opportunity) pair:
// update when a note exists, create when the lookup reports ErrNotFound.
// Any other lookup failure propagates instead of falling through to
// create, which would duplicate notes on transient errors.
func (c *Client) UpsertNote(ctx context.Context, note models.UserOpportunityNote) (*models.UserOpportunityNote, error) {
	existing, err := c.GetNote(ctx, note.UserProfile, note.Opportunity)

	var data []byte
	switch {
	case err == nil:
		path := fmt.Sprintf("/users/notes/%s/", url.PathEscape(existing.Key()))
		data, err = c.put(ctx, path, note)
	case errors.Is(err, ErrNotFound):
		data, err = c.post(ctx, "/users/notes/", note)
	default:
		return nil, fmt.Errorf("upsert note: %w", err)
	}

	if err != nil {
		c.logger.Error("failed to upsert note",
			zap.String("username", note.UserProfile),
			zap.Int64("opportunity_id", note.Opportunity),
			zap.Error(err),
		)
		return nil, fmt.Errorf("upsert note: %w", err)
	}

	var saved models.UserOpportunityNote
	if err := c.parseResponse(data, &saved); err != nil {
		return nil, err
	}

	c.logger.Info("note saved",
		zap.String("username", saved.UserProfile),
		zap.Int64("opportunity_id", saved.Opportunity),
	)

	return &saved, nil
}

func (c *Client) DeleteNote(ctx context.Context, username string, opportunityID int64) error {
	key := models.UserOpportunityNote{UserProfile: username, Opportunity: opportunityID}.Key()
	path := fmt.Sprintf("/users/notes/%s/", url.PathEscape(key))

	if err := c.delete(ctx, path); err != nil {
		c.logger.Error("failed to delete note",
			zap.String("username", username),
			zap.Int64("opportunity_id", opportunityID),
			zap.Error(err),
		)
		return fmt.Errorf("delete note: %w", err)
	}

	c.logger.Info("note deleted",
		zap.String("username", username),
		zap.Int64("opportunity_id", opportunityID),
	)

	return nil
}
