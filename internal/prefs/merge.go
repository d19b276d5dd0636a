package prefs

import "opportunity-alerts/internal/models"

// ProfilePatch is a partial preference update. Nil fields are absent and
// leave the stored value untouched; AlertTypes follows the same rule with
// a nil slice meaning absent.
type ProfilePatch struct {
	Email               *string
	Preferences         *string
	EnableNotifications *bool
	NotificationMethod  *string
	SlackUserID         *string
	AlertTime           *string
	AlertDaysAhead      *int
	AlertTypes          []string
}

// Merge applies a partial update onto an existing profile field by field.
// Username is identity and never patched. Switching the notification
// method away from email or slack deliberately keeps the now-inert
// address fields, so toggling back later loses nothing.
func Merge(existing models.UserProfile, patch ProfilePatch) models.UserProfile {
	merged := existing

	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.Preferences != nil {
		merged.Preferences = *patch.Preferences
	}
	if patch.EnableNotifications != nil {
		merged.EnableNotifications = *patch.EnableNotifications
	}
	if patch.NotificationMethod != nil {
		merged.NotificationMethod = *patch.NotificationMethod
	}
	if patch.SlackUserID != nil {
		merged.SlackUserID = *patch.SlackUserID
	}
	if patch.AlertTime != nil {
		merged.AlertTime = *patch.AlertTime
	}
	if patch.AlertDaysAhead != nil {
		merged.AlertDaysAhead = *patch.AlertDaysAhead
	}
	if patch.AlertTypes != nil {
		merged.AlertTypes = append([]string(nil), patch.AlertTypes...)
	}

	return merged
}
