package domain

// Action names what a caller is about to do.
type Action string

const (
	ActionView     Action = "view"
	ActionList     Action = "list"
	ActionExport   Action = "export"
	ActionDownload Action = "download"
	ActionCreate   Action = "create"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
)

var readActions = map[Action]bool{
	ActionView:     true,
	ActionList:     true,
	ActionExport:   true,
	ActionDownload: true,
}

// IsReadAction reports whether a is in the always-permitted read class.
func IsReadAction(a Action) bool {
	return readActions[a]
}

// IsActionAllowed reports whether a is permitted under s. Read actions are
// always allowed; everything else is denied once the trial has expired.
func IsActionAllowed(s TrialStatus, a Action) bool {
	if IsReadAction(a) {
		return true
	}
	return s.Status != StatusExpired
}

// BlockedMessage is shown when a mutating action is denied.
type BlockedMessage struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	ActionText string `json:"action_text"`
}

// BlockedActionMessage returns the fixed denial text.
func BlockedActionMessage() BlockedMessage {
	return BlockedMessage{
		Title:      "Action Not Allowed",
		Message:    "Your trial has expired. Upgrade to a paid plan to create and edit content.",
		ActionText: "Upgrade Now",
	}
}
