package notify

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hoops_signup/internal/roster"
)

// dateLayout is how schedule start times appear in emails.
const dateLayout = "Mon Jan 2 2006, 3:04 PM"

// SignupChangeData describes a join or leave for the admin alert.
type SignupChangeData struct {
	SiteName      string
	Joined        bool
	ScheduleTitle string
	ScheduleDate  time.Time
	ActorLabel    string
	TargetLabel   string
	Slot          *roster.Slot
}

// SlotLine renders the spot a player holds (or held).
func SlotLine(slot *roster.Slot) string {
	if slot == nil {
		return "Spot: (unknown)"
	}
	if slot.Kind == roster.TierPlaying {
		return fmt.Sprintf("Spot: Playing %d/%d (overall #%d)", slot.Within, slot.Limit, slot.Overall)
	}
	return fmt.Sprintf("Spot: Waitlist #%d (overall #%d, limit %d)", slot.Within, slot.Overall, slot.Limit)
}

// BuildSignupChangeEmail creates the alert sent to admins when someone joins or withdraws.
func BuildSignupChangeEmail(data SignupChangeData) Message {
	verb := "withdrew"
	if data.Joined {
		verb = "signed up"
	}
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Schedule: %s\n", data.ScheduleTitle))
	buf.WriteString(fmt.Sprintf("When: %s\n\n", data.ScheduleDate.Format(dateLayout)))
	buf.WriteString(SlotLine(data.Slot) + "\n")
	buf.WriteString(fmt.Sprintf("Added by: %s", data.ActorLabel))
	return Message{
		Subject: fmt.Sprintf("[%s] %s %s (%s)", data.SiteName, data.TargetLabel, verb, data.ScheduleTitle),
		Text:    buf.String(),
	}
}

// PromotionData lists what moved a user into the playing tier.
type PromotionData struct {
	SiteName      string
	ScheduleTitle string
	ScheduleDate  time.Time
	Items         []roster.Promotion
	Limit         int
}

// BuildPromotionEmail tells a user that they (or their guests) are now playing.
func BuildPromotionEmail(data PromotionData) Message {
	var buf bytes.Buffer
	buf.WriteString("A spot opened up and you're off the waitlist.\n\n")
	buf.WriteString(fmt.Sprintf("Schedule: %s\n", data.ScheduleTitle))
	buf.WriteString(fmt.Sprintf("When: %s\n\n", data.ScheduleDate.Format(dateLayout)))
	for _, p := range data.Items {
		who := p.Label
		if p.Kind == roster.KindGuest {
			who = fmt.Sprintf("%s (your guest)", p.Label)
		}
		buf.WriteString(fmt.Sprintf("- %s: Playing %d/%d\n", who, p.OverallRank, data.Limit))
	}
	buf.WriteString("\nIf you can no longer make it, please withdraw so the next player gets the spot.\n")
	return Message{
		Subject: fmt.Sprintf("[%s] You're in! (%s)", data.SiteName, data.ScheduleTitle),
		Text:    buf.String(),
	}
}

// PasswordResetData holds the link pieces for a reset email.
type PasswordResetData struct {
	SiteName string
	BaseURL  string
	Email    string
	Token    string
}

// ResetURL is the page a user opens to choose a new password.
func ResetURL(baseURL, token, email string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return strings.TrimRight(baseURL, "/") + "/reset-password?" + q.Encode()
}

// BuildPasswordResetEmail creates the reset link email.
func BuildPasswordResetEmail(data PasswordResetData) Message {
	return Message{
		To:      []string{data.Email},
		Subject: fmt.Sprintf("Reset your %s password", data.SiteName),
		Text:    fmt.Sprintf("Reset your password: %s\n\nThis link expires in 1 hour.", ResetURL(data.BaseURL, data.Token, data.Email)),
	}
}
