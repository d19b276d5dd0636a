package models

import (
	"strings"
	"time"
)

// Opportunity is a time-bound item tracked by the backend.
// Deadline is a calendar date string (YYYY-MM-DD) as served by the API.
type Opportunity struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Deadline  string    `json:"deadline"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes,omitempty"`
	PostedBy  string    `json:"posted_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpportunityForm is the writable subset sent on create and update.
// Backend-assigned fields (id, timestamps) are never part of the payload.
type OpportunityForm struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	Type     string `json:"type"`
	Notes    string `json:"notes,omitempty"`
	PostedBy string `json:"posted_by,omitempty"`
}

const (
	TypeJob        = "Job"
	TypeInternship = "Internship"
	TypeConference = "Conference"
	TypeOther      = "Other"
)

var typeCanonical = map[string]string{
	"job":        TypeJob,
	"internship": TypeInternship,
	"conference": TypeConference,
	"other":      TypeOther,
}

var TypeColors = map[string]string{
	TypeJob:        "blue",
	TypeInternship: "green",
	TypeConference: "purple",
	TypeOther:      "gray",
}

func TypeOptions() []string {
	return []string{
		TypeJob,
		TypeInternship,
		TypeConference,
		TypeOther,
	}
}

// CanonicalType resolves a raw type value to its canonical enum form.
func CanonicalType(raw string) (string, bool) {
	t, ok := typeCanonical[strings.ToLower(strings.TrimSpace(raw))]
	return t, ok
}

func IsValidType(raw string) bool {
	_, ok := CanonicalType(raw)
	return ok
}

// NormalizeType maps unknown type values to Other so display and
// classification never fail on an evolving type set.
func NormalizeType(raw string) string {
	if t, ok := CanonicalType(raw); ok {
		return t
	}
	return TypeOther
}

func GetTypeColor(raw string) string {
	return TypeColors[NormalizeType(raw)]
}
