package tracker

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"opportunity-alerts/internal/models"

	"go.uber.org/zap"
)

type SearchParams struct {
	Search        string
	Type          string
	DeadlineStart string // YYYY-MM-DD
	DeadlineEnd   string // YYYY-MM-DD
	Ordering      string
	Page          int
	PageSize      int
}

func (p SearchParams) values() url.Values {
	params := url.Values{}

	if p.Search != "" {
		params.Set("search", p.Search)
	}
	if p.Type != "" {
		params.Set("type", p.Type)
	}
	if p.DeadlineStart != "" {
		params.Set("deadline_start", p.DeadlineStart)
	}
	if p.DeadlineEnd != "" {
		params.Set("deadline_end", p.DeadlineEnd)
	}
	if p.Ordering != "" {
		params.Set("ordering", p.Ordering)
	}
	if p.Page > 0 {
		params.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(p.PageSize))
	}

	return params
}

func (c *Client) ListOpportunities(ctx context.Context, params SearchParams) (*OpportunityPage, error) {
	data, err := c.get(ctx, "/opportunities/", params.values())
	if err != nil {
		c.logger.Error("failed to list opportunities",
			zap.String("search", params.Search),
			zap.String("type", params.Type),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list opportunities: %w", err)
	}

	items, count, err := decodeList[models.Opportunity](data)
	if err != nil {
		c.logger.Error("failed to parse opportunity list", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("opportunities listed",
		zap.Int("count", count),
		zap.Int("returned", len(items)),
	)

	return &OpportunityPage{Count: count, Results: items}, nil
}

func (c *Client) GetOpportunity(ctx context.Context, id int64) (*models.Opportunity, error) {
	path := fmt.Sprintf("/opportunities/%d/", id)

	data, err := c.get(ctx, path, nil)
	if err != nil {
		c.logger.Error("failed to get opportunity",
			zap.Int64("opportunity_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get opportunity: %w", err)
	}

	var opp models.Opportunity
	if err := c.parseResponse(data, &opp); err != nil {
		c.logger.Error("failed to parse opportunity", zap.Error(err))
		return nil, err
	}

	return &opp, nil
}

func (c *Client) CreateOpportunity(ctx context.Context, form models.OpportunityForm) (*models.Opportunity, error) {
	data, err := c.post(ctx, "/opportunities/", form)
	if err != nil {
		c.logger.Error("failed to create opportunity",
			zap.String("title", form.Title),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create opportunity: %w", err)
	}

	var opp models.Opportunity
	if err := c.parseResponse(data, &opp); err != nil {
		return nil, err
	}

	c.logger.Info("opportunity created",
		zap.Int64("opportunity_id", opp.ID),
		zap.String("title", opp.Title),
	)

	return &opp, nil
}

func (c *Client) UpdateOpportunity(ctx context.Context, id int64, form models.OpportunityForm) (*models.Opportunity, error) {
	path := fmt.Sprintf("/opportunities/%d/", id)

	data, err := c.put(ctx, path, form)
	if err != nil {
		c.logger.Error("failed to update opportunity",
			zap.Int64("opportunity_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("update opportunity: %w", err)
	}

	var opp models.Opportunity
	if err := c.parseResponse(data, &opp); err != nil {
		return nil, err
	}

	c.logger.Info("opportunity updated", zap.Int64("opportunity_id", id))

	return &opp, nil
}

func (c *Client) DeleteOpportunity(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/opportunities/%d/", id)

	if err := c.delete(ctx, path); err != nil {
		c.logger.Error("failed to delete opportunity",
			zap.Int64("opportunity_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("delete opportunity: %w", err)
	}

	c.logger.Info("opportunity deleted", zap.Int64("opportunity_id", id))
	return nil
}

// ListUpcoming returns opportunities due within the next days, ordered
// soonest first.
func (c *Client) ListUpcoming(ctx context.Context, now time.Time, days int) ([]models.Opportunity, error) {
	params := SearchParams{
		DeadlineStart: now.Format("2006-01-02"),
		DeadlineEnd:   now.AddDate(0, 0, days).Format("2006-01-02"),
		Ordering:      "deadline",
	}

	page, err := c.ListOpportunities(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list upcoming: %w", err)
	}

	return page.Results, nil
}

// ListRecent returns the most recently posted opportunities.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]models.Opportunity, error) {
	params := SearchParams{
		Ordering: "-created_at",
		PageSize: limit,
	}

	page, err := c.ListOpportunities(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}

	return page.Results, nil
}
