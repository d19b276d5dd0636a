package prefs

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"opportunity-alerts/internal/models"
)

// Rule identifies a violated validation rule.
type Rule string

const (
	RuleEmptyAlertTypes Rule = "EmptyAlertTypes"
	RuleMissingEmail    Rule = "MissingEmail"
	RuleMissingSlackID  Rule = "MissingSlackId"
	RuleUnknownMethod   Rule = "UnknownMethod"
	RuleBadAlertTime    Rule = "BadAlertTime"
)

// Violation is one user-correctable rule failure.
type Violation struct {
	Field string
	Rule  Rule
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Rule)
}

// Adjustment records a value the validator normalized rather than rejected.
type Adjustment struct {
	Field  string
	Reason string
}

// Result is the outcome of a validation pass. All rules are evaluated
// independently, so Violations lists every failure, not just the first.
type Result struct {
	Violations  []Violation
	Adjustments []Adjustment
}

func (r Result) OK() bool {
	return len(r.Violations) == 0
}

func (r Result) Adjusted() bool {
	return len(r.Adjustments) > 0
}

const (
	MinAlertDaysAhead = 1
	MaxAlertDaysAhead = 30

	DefaultAlertTime = "07:00"
)

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks a candidate preference set and returns the normalized,
// persist-ready profile together with every violated rule. All rules run
// in one pass and the result is idempotent: validating an already
// normalized profile reports no adjustments.
func Validate(p models.UserProfile) (models.UserProfile, Result) {
	var res Result

	switch {
	case p.AlertDaysAhead == 0:
		// Unset lead time defaults to the minimum.
		p.AlertDaysAhead = MinAlertDaysAhead
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field:  "alert_days_ahead",
			Reason: fmt.Sprintf("unset, defaulted to %d", MinAlertDaysAhead),
		})
	case p.AlertDaysAhead < MinAlertDaysAhead:
		p.AlertDaysAhead = MinAlertDaysAhead
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field:  "alert_days_ahead",
			Reason: fmt.Sprintf("below minimum, clamped to %d", MinAlertDaysAhead),
		})
	case p.AlertDaysAhead > MaxAlertDaysAhead:
		p.AlertDaysAhead = MaxAlertDaysAhead
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field:  "alert_days_ahead",
			Reason: fmt.Sprintf("above maximum, clamped to %d", MaxAlertDaysAhead),
		})
	}

	// Unknown alert types are dropped, not rejected: the type set on the
	// backend can grow and shrink independently of deployed clients.
	var kept []string
	seen := make(map[string]bool)
	dropped := 0
	for _, raw := range p.AlertTypes {
		t, ok := models.CanonicalType(raw)
		if !ok {
			dropped++
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		kept = append(kept, t)
	}
	if dropped > 0 {
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field:  "alert_types_list",
			Reason: fmt.Sprintf("dropped %d unknown type(s)", dropped),
		})
	}
	p.AlertTypes = kept

	if p.EnableNotifications && len(p.AlertTypes) == 0 {
		res.Violations = append(res.Violations, Violation{
			Field: "alert_types_list",
			Rule:  RuleEmptyAlertTypes,
		})
	}

	switch p.NotificationMethod {
	case models.MethodEmail:
		if !emailShape.MatchString(strings.TrimSpace(p.Email)) {
			res.Violations = append(res.Violations, Violation{
				Field: "email",
				Rule:  RuleMissingEmail,
			})
		}
	case models.MethodSlack:
		if strings.TrimSpace(p.SlackUserID) == "" {
			res.Violations = append(res.Violations, Violation{
				Field: "slack_user_id",
				Rule:  RuleMissingSlackID,
			})
		}
	case models.MethodNone:
	case "":
		p.NotificationMethod = models.MethodNone
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field:  "notification_method",
			Reason: "unset, defaulted to none",
		})
	default:
		res.Violations = append(res.Violations, Violation{
			Field: "notification_method",
			Rule:  RuleUnknownMethod,
		})
	}

	if p.AlertTime == "" {
		p.AlertTime = DefaultAlertTime
		res.Adjustments = append(res.Adjustments, Adjustment{
			Field:  "alert_time",
			Reason: "unset, defaulted to " + DefaultAlertTime,
		})
	} else if _, err := time.Parse("15:04", p.AlertTime); err != nil {
		res.Violations = append(res.Violations, Violation{
			Field: "alert_time",
			Rule:  RuleBadAlertTime,
		})
	}

	return p, res
}

// Defaults returns the initial preference set for a new profile:
// notifications off until configured, morning alerts, a week of lead
// time, all opportunity types selected.
func Defaults(username string) models.UserProfile {
	return models.UserProfile{
		Username:           username,
		NotificationMethod: models.MethodNone,
		AlertTime:          DefaultAlertTime,
		AlertDaysAhead:     7,
		AlertTypes:         models.TypeOptions(),
	}
}
