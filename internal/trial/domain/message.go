package domain

import "fmt"

// MessageType is the severity a banner renders with.
type MessageType string

const (
	MessageInfo    MessageType = "info"
	MessageWarning MessageType = "warning"
	MessageError   MessageType = "error"
)

// Message is the user-facing description of a trial status.
type Message struct {
	Type        MessageType `json:"type"`
	Title       string      `json:"title"`
	Body        string      `json:"message"`
	ShowUpgrade bool        `json:"show_upgrade"`
	ReadOnly    bool        `json:"read_only,omitempty"`
}

// MessageFor returns the message for a status, or nil when nothing should
// be shown.
func MessageFor(s TrialStatus) *Message {
	switch s.Status {
	case StatusActive:
		return &Message{
			Type:  MessageInfo,
			Title: "Trial Active",
			Body:  fmt.Sprintf("%d days remaining in your trial", s.DaysRemaining),
		}
	case StatusExpiringSoon:
		m := &Message{
			Type:        MessageWarning,
			Title:       "Trial Ending Soon",
			Body:        fmt.Sprintf("Only %d days left in your trial", s.DaysRemaining),
			ShowUpgrade: true,
		}
		if s.WarningLevel == WarningCritical {
			m.Type = MessageError
		}
		if s.DaysRemaining == 1 {
			m.Body = "Your trial ends tomorrow!"
		}
		return m
	case StatusGracePeriod:
		return &Message{
			Type:        MessageError,
			Title:       "Trial Expired",
			Body:        fmt.Sprintf("Your trial has ended. Upgrade within %d days to keep all features.", s.GraceDaysRemaining),
			ShowUpgrade: true,
		}
	case StatusExpired:
		return &Message{
			Type:        MessageError,
			Title:       "Trial Expired",
			Body:        "Your trial has expired. Upgrade to continue using all features.",
			ShowUpgrade: true,
			ReadOnly:    true,
		}
	default:
		return nil
	}
}
