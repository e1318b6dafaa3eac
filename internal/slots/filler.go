package slots

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"mandibot/internal/logging"
	"mandibot/internal/temporal"
	"mandibot/internal/vocab"
)

var negativeRe = regexp.MustCompile(`(?i)\b(no|nah|nope|n)\b`)

// Result is the outcome of one turn. Exactly one of Ask and Slots is set:
// Ask carries the next prompt while the conversation is incomplete, Slots
// carries the full validated slot set once it is complete.
type Result struct {
	Ask   string
	Slots *SlotSet
}

// Filler is the dialogue state machine. It mutates the supplied
// ConversationState turn by turn; it holds no per-conversation state itself
// and is safe to share across conversations.
type Filler struct {
	vocab     *vocab.Vocabulary
	extractor *Extractor
	now       func() time.Time
}

// NewFiller creates a state machine bound to a vocabulary. Pass nil for now
// to use the wall clock.
func NewFiller(v *vocab.Vocabulary, now func() time.Time) *Filler {
	if now == nil {
		now = time.Now
	}
	return &Filler{vocab: v, extractor: NewExtractor(v, now), now: now}
}

// HandleTurn feeds one user turn through the state machine.
//
// If the prior turn solicited a specific slot, the input is interpreted as an
// answer to that slot first; otherwise extraction runs across all still-empty
// slots. Every filled slot is then re-validated, the next missing slot is
// prompted for, and once all three are valid the full slot set is returned.
// After completion the state is logically dead: callers must discard or
// reset it.
func (f *Filler) HandleTurn(text string, state *ConversationState) Result {
	text = strings.TrimSpace(text)
	state.Turns = append(state.Turns, text)

	if state.Expecting != "" {
		slot := state.Expecting
		state.Expecting = ""
		filled := f.answerSlot(slot, text, state)
		if !filled {
			if negativeRe.MatchString(text) {
				// Declined to answer; ask again without an error.
				return f.reprompt(state, slot, promptFor(slot))
			}
			msg := invalidSlotMessage(slot, text)
			return f.reprompt(state, slot, msg+" "+promptFor(slot))
		}
		logging.SlotsDebug("conversation %s: %s answered directly", state.ID, slot)
	} else {
		state.Slots = f.extractor.Extract(text, state.Slots)
	}

	// Re-validate every filled slot, not only the newly extracted one. All
	// invalid values are cleared in the same pass so the state never holds a
	// raw candidate past this turn; the first one in priority order becomes
	// the solicited slot.
	var invalidSlot Slot
	var invalidValue string
	for _, slot := range slotOrder {
		value := state.Slots.Get(slot)
		if value == "" {
			continue
		}
		canonical, ok := f.validate(slot, value)
		if !ok {
			state.Slots.Set(slot, "")
			if invalidSlot == "" {
				invalidSlot, invalidValue = slot, value
			}
			continue
		}
		state.Slots.Set(slot, canonical)
	}
	if invalidSlot != "" {
		msg := invalidSlotMessage(invalidSlot, invalidValue)
		return f.reprompt(state, invalidSlot, msg+" "+promptFor(invalidSlot))
	}

	if missing, ok := state.Slots.Missing(); ok {
		return f.reprompt(state, missing, promptFor(missing))
	}

	state.Status = StatusComplete
	state.Expecting = ""
	done := state.Slots
	logging.Slots("conversation %s complete: %+v", state.ID, done)
	return Result{Slots: &done}
}

// answerSlot interprets text as a direct answer to the solicited slot.
func (f *Filler) answerSlot(slot Slot, text string, state *ConversationState) bool {
	switch slot {
	case SlotCommodity:
		if found, ok := f.vocab.MatchCommodity(text); ok {
			state.Slots.Commodity = found
			return true
		}
		if fields := strings.Fields(strings.ToLower(text)); len(fields) > 0 && f.vocab.IsKnownCommodity(fields[0]) {
			state.Slots.Commodity = fields[0]
			return true
		}
	case SlotArea:
		if found, ok := f.vocab.MatchArea(text); ok {
			state.Slots.Area = found
			return true
		}
		if single := strings.ToLower(strings.TrimSpace(text)); f.vocab.IsKnownArea(single) {
			state.Slots.Area = single
			return true
		}
	case SlotTime:
		if norm, ok := temporal.Normalize(text, f.now()); ok {
			state.Slots.Time = norm
			return true
		}
	}
	return false
}

// validate checks a filled slot value and returns its canonical form.
func (f *Filler) validate(slot Slot, value string) (string, bool) {
	switch slot {
	case SlotCommodity:
		if f.vocab.IsKnownCommodity(value) {
			return strings.ToLower(value), true
		}
	case SlotArea:
		if f.vocab.IsKnownArea(value) {
			return strings.ToLower(value), true
		}
	case SlotTime:
		if _, err := time.Parse(temporal.CanonicalLayout, value); err == nil {
			return value, true
		}
		if norm, ok := temporal.Normalize(value, f.now()); ok {
			return norm, true
		}
	}
	return "", false
}

func (f *Filler) reprompt(state *ConversationState, slot Slot, ask string) Result {
	state.Expecting = slot
	state.Status = StatusIncomplete
	return Result{Ask: ask}
}

func promptFor(slot Slot) string {
	switch slot {
	case SlotCommodity:
		return "Which commodity are you interested in?"
	case SlotArea:
		return "Which UP city are you asking about?"
	case SlotTime:
		return "Which date are you interested in? (e.g. today, tomorrow, 25/08/2025)"
	}
	return fmt.Sprintf("Please provide %s.", slot)
}

func invalidSlotMessage(slot Slot, value string) string {
	switch slot {
	case SlotCommodity:
		return fmt.Sprintf("Sorry, '%s' is not available. Please choose a valid commodity.", value)
	case SlotArea:
		return fmt.Sprintf("Sorry, '%s' is not a UP city in our database. Please provide a valid UP city.", value)
	case SlotTime:
		return fmt.Sprintf("Sorry, I couldn't understand the date '%s'. Please provide a valid date (e.g. today, tomorrow, 25/08/2025).", value)
	}
	return fmt.Sprintf("Sorry, '%s' is not valid for %s.", value, slot)
}
