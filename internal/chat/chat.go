// Package chat wires the pipeline together: intent gating, slot filling,
// price acquisition, aggregation, and reply formatting.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mandibot/internal/classify"
	"mandibot/internal/logging"
	"mandibot/internal/market"
	"mandibot/internal/scraper"
	"mandibot/internal/slots"
	"mandibot/internal/store"
	"mandibot/internal/temporal"
	"mandibot/internal/vocab"
)

const redirectReply = "I can help with mandi prices for crops in Uttar Pradesh. " +
	"Ask me something like 'price of wheat in agra today'."

// PriceSource acquires price rows for a completed query.
type PriceSource interface {
	AcquirePrices(ctx context.Context, q scraper.Query) (scraper.Result, error)
}

// Options configures a Service. Classifier, Store, and Now may be nil.
type Options struct {
	Vocabulary *vocab.Vocabulary
	Prices     PriceSource
	Classifier classify.Classifier
	Threshold  float64
	Store      *store.Store
	Now        func() time.Time
}

// Service handles user messages end to end. Safe for concurrent use across
// conversation ids; turns within one conversation must be serialized by the
// caller.
type Service struct {
	vocab         *vocab.Vocabulary
	filler        *slots.Filler
	conversations slots.Store
	classifier    classify.Classifier
	threshold     float64
	prices        PriceSource
	db            *store.Store
	now           func() time.Time
}

// New creates a chat service.
func New(o Options) *Service {
	now := o.Now
	if now == nil {
		now = time.Now
	}
	classifier := o.Classifier
	if classifier == nil {
		classifier = classify.KeywordClassifier{}
	}
	return &Service{
		vocab:         o.Vocabulary,
		filler:        slots.NewFiller(o.Vocabulary, now),
		conversations: slots.NewMemoryStore(),
		classifier:    classifier,
		threshold:     o.Threshold,
		prices:        o.Prices,
		db:            o.Store,
		now:           now,
	}
}

// NewConversationID returns a fresh conversation id.
func NewConversationID() string {
	return uuid.NewString()
}

// Reset discards any in-progress conversation state for the id.
func (s *Service) Reset(conversationID string) {
	s.conversations.Delete(conversationID)
	logging.Chat("conversation %s reset", conversationID)
}

// HandleMessage processes one user turn and returns the bot reply. The
// returned error is reserved for infrastructure failures; bad user input is
// answered with a prompt, never an error.
func (s *Service) HandleMessage(ctx context.Context, conversationID, text string) (string, error) {
	s.recordTurn(ctx, conversationID, store.RoleUser, text)

	state, active := s.conversations.Get(conversationID)
	if !active {
		label, err := s.classifier.Classify(ctx, text)
		if err != nil {
			logging.ChatDebug("classify error, assuming price enquiry: %v", err)
		} else if !label.IsPriceEnquiry() || label.Confidence < s.threshold {
			logging.Chat("conversation %s: off-topic turn (%s %.2f)", conversationID, label.Prediction, label.Confidence)
			s.recordTurn(ctx, conversationID, store.RoleBot, redirectReply)
			return redirectReply, nil
		}
		state = slots.NewConversation(conversationID)
		s.conversations.Put(conversationID, state)
	}

	result := s.filler.HandleTurn(text, state)
	if result.Ask != "" {
		s.recordTurn(ctx, conversationID, store.RoleBot, result.Ask)
		return result.Ask, nil
	}

	// Slot set complete; the conversation is finished regardless of how the
	// price lookup goes.
	s.conversations.Delete(conversationID)

	reply, err := s.answerQuery(ctx, conversationID, *result.Slots)
	if err != nil {
		return "", err
	}
	s.recordTurn(ctx, conversationID, store.RoleBot, reply)
	return reply, nil
}

// answerQuery turns a validated slot set into a price reply.
func (s *Service) answerQuery(ctx context.Context, conversationID string, filled slots.SlotSet) (string, error) {
	commodityCode, ok := s.vocab.ResolveCommodityCode(filled.Commodity)
	if !ok {
		return "", fmt.Errorf("no code for commodity %q", filled.Commodity)
	}
	if _, ok := s.vocab.ResolveAreaCode(filled.Area); !ok {
		return "", fmt.Errorf("no code for area %q", filled.Area)
	}
	date, err := time.Parse(temporal.CanonicalLayout, filled.Time)
	if err != nil {
		return "", fmt.Errorf("slot date %q: %w", filled.Time, err)
	}

	commodityName, ok := vocab.CommodityDisplayName(commodityCode)
	if !ok {
		commodityName = titleWords(filled.Commodity)
	}
	logging.Chat("conversation %s: querying %s in %s on %s", conversationID, commodityName, filled.Area, filled.Time)

	result, err := s.prices.AcquirePrices(ctx, scraper.Query{
		CommodityName: commodityName,
		City:          filled.Area,
		Date:          date,
	})
	if err != nil {
		return "", fmt.Errorf("acquire prices: %w", err)
	}

	summaries := market.Summarize(result.Rows, market.DefaultTopK)
	s.recordQuery(ctx, conversationID, filled, result)
	return formatReply(commodityName, filled.Area, date, summaries, result.Synthetic), nil
}

func (s *Service) recordTurn(ctx context.Context, conversationID, role, content string) {
	if s.db == nil {
		return
	}
	if err := s.db.RecordTurn(ctx, conversationID, role, content); err != nil {
		logging.StoreError("record turn: %v", err)
	}
}

func (s *Service) recordQuery(ctx context.Context, conversationID string, filled slots.SlotSet, result scraper.Result) {
	if s.db == nil {
		return
	}
	source := store.SourceLive
	if result.Synthetic {
		source = store.SourceSynthetic
	}
	err := s.db.RecordQuery(ctx, store.QueryRecord{
		ConversationID: conversationID,
		Commodity:      filled.Commodity,
		Area:           filled.Area,
		Date:           filled.Time,
		Source:         source,
		RowCount:       len(result.Rows),
	})
	if err != nil {
		logging.StoreError("record query: %v", err)
	}
}
