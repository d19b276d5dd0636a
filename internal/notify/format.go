package notify

import (
	"fmt"
	"strings"
)

// FormatUrgency renders the remaining lead time the way the alert copy
// reads: TODAY, TOMORROW, or "in N days".
func FormatUrgency(daysUntil int) string {
	switch daysUntil {
	case 0:
		return "TODAY"
	case 1:
		return "TOMORROW"
	default:
		return fmt.Sprintf("in %d days", daysUntil)
	}
}

func FormatSubject(digest Digest) string {
	return fmt.Sprintf("Upcoming Opportunity Deadlines - %d Alert(s)", len(digest.Opportunities))
}

// FormatBody builds the plain-text digest body.
func FormatBody(digest Digest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Hello %s,\n\n", digest.Profile.Username))
	sb.WriteString(fmt.Sprintf("You have %d upcoming opportunity deadline(s):\n\n", len(digest.Opportunities)))

	for _, due := range digest.Opportunities {
		opp := due.Opportunity

		sb.WriteString(fmt.Sprintf("- '%s' (%s) - Due %s (%s)\n",
			opp.Title, opp.Type, FormatUrgency(due.DaysUntil), opp.Deadline))

		if opp.PostedBy != "" {
			sb.WriteString(fmt.Sprintf("  Posted by: %s\n", opp.PostedBy))
		}

		if opp.Notes != "" {
			sb.WriteString(fmt.Sprintf("  Notes: %s\n", truncate(opp.Notes, 150)))
		}

		sb.WriteString("\n")
	}

	sb.WriteString("---\n")
	sb.WriteString("Update your notification preferences in your profile settings.\n\n")
	sb.WriteString("Best regards,\nOpportunity Alerts")

	return sb.String()
}

// FormatSlackText builds the compact single-message Slack variant.
func FormatSlackText(digest Digest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(":bell: *%d upcoming opportunity deadline(s)*\n", len(digest.Opportunities)))

	for _, due := range digest.Opportunities {
		opp := due.Opportunity
		sb.WriteString(fmt.Sprintf("• *%s* (%s) - due %s (%s)\n",
			opp.Title, opp.Type, FormatUrgency(due.DaysUntil), opp.Deadline))
	}

	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
