package models

import "fmt"

// UserProfile holds a user's notification preferences. Username is the
// identity and is immutable once created on the backend.
type UserProfile struct {
	Username            string   `json:"username"`
	Email               string   `json:"email,omitempty"`
	Preferences         string   `json:"preferences,omitempty"`
	EnableNotifications bool     `json:"enable_notifications"`
	NotificationMethod  string   `json:"notification_method"`
	SlackUserID         string   `json:"slack_user_id,omitempty"`
	AlertTime           string   `json:"alert_time"`
	AlertDaysAhead      int      `json:"alert_days_ahead"`
	AlertTypes          []string `json:"alert_types_list"`
}

const (
	MethodEmail = "email"
	MethodSlack = "slack"
	MethodNone  = "none"
)

func MethodOptions() []string {
	return []string{
		MethodEmail,
		MethodSlack,
		MethodNone,
	}
}

func IsValidMethod(method string) bool {
	switch method {
	case MethodEmail, MethodSlack, MethodNone:
		return true
	}
	return false
}

// UserOpportunityNote is a user's private note on one opportunity.
// At most one note exists per (username, opportunity) pair.
type UserOpportunityNote struct {
	UserProfile string `json:"user_profile"`
	Opportunity int64  `json:"opportunity"`
	Notes       string `json:"notes"`
}

// Key is the composite resource identifier used in note update paths.
func (n UserOpportunityNote) Key() string {
	return fmt.Sprintf("%s_%d", n.UserProfile, n.Opportunity)
}
