// Package slots implements the conversational slot-filling engine: pattern
// based extraction of commodity/area/time from free text and the per
// conversation dialogue state machine that solicits whatever is missing.
package slots

// Slot names one of the three structured parameters a price query requires.
type Slot string

const (
	SlotCommodity Slot = "commodity"
	SlotArea      Slot = "area"
	SlotTime      Slot = "time"
)

// slotOrder is the fixed priority in which missing slots are solicited.
var slotOrder = []Slot{SlotCommodity, SlotArea, SlotTime}

// Status is the lifecycle state of a conversation.
type Status string

const (
	StatusNew        Status = "new"
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

// SlotSet holds the three query parameters. An empty string means unfilled;
// a non-empty value is always a canonical, validated entry (lower-cased
// vocabulary name, or a YYYY-MM-DD date for the time slot).
type SlotSet struct {
	Commodity string `json:"commodity,omitempty"`
	Area      string `json:"area,omitempty"`
	Time      string `json:"time,omitempty"`
}

// Get returns the value of the named slot.
func (s SlotSet) Get(slot Slot) string {
	switch slot {
	case SlotCommodity:
		return s.Commodity
	case SlotArea:
		return s.Area
	case SlotTime:
		return s.Time
	}
	return ""
}

// Set assigns the named slot.
func (s *SlotSet) Set(slot Slot, value string) {
	switch slot {
	case SlotCommodity:
		s.Commodity = value
	case SlotArea:
		s.Area = value
	case SlotTime:
		s.Time = value
	}
}

// Missing returns the first unfilled slot in priority order.
func (s SlotSet) Missing() (Slot, bool) {
	for _, slot := range slotOrder {
		if s.Get(slot) == "" {
			return slot, true
		}
	}
	return "", false
}

// Complete reports whether all three slots are filled.
func (s SlotSet) Complete() bool {
	_, missing := s.Missing()
	return !missing
}

// ConversationState is the per-conversation dialogue state. It is owned by
// exactly one conversation; callers must serialize turns per conversation id.
type ConversationState struct {
	ID        string   `json:"id"`
	Slots     SlotSet  `json:"slots"`
	Expecting Slot     `json:"expecting,omitempty"` // slot currently solicited, "" when none
	Status    Status   `json:"status"`
	Turns     []string `json:"turns,omitempty"` // raw inputs, diagnostics only
}

// NewConversation creates a fresh conversation state.
func NewConversation(id string) *ConversationState {
	return &ConversationState{ID: id, Status: StatusNew}
}
