package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"

	"opportunity-alerts/internal/models"
)

// OpportunityPage is the paginated list envelope served by the backend.
type OpportunityPage struct {
	Count    int                  `json:"count"`
	Next     *string              `json:"next"`
	Previous *string              `json:"previous"`
	Results  []models.Opportunity `json:"results"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// decodeList decodes a list endpoint body that may be either the
// paginated envelope or a bare array, depending on backend pagination
// settings.
func decodeList[T any](data []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("unmarshal list: %w", err)
		}
		return items, len(items), nil
	}

	var page struct {
		Count   int `json:"count"`
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, 0, fmt.Errorf("unmarshal page: %w", err)
	}
	return page.Results, page.Count, nil
}
