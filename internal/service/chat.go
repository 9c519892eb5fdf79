package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopassist/internal/metrics"
	"shopassist/internal/model"
)

// ProductLister fetches catalog items, pre-filtered by category when one is given.
type ProductLister interface {
	ListProducts(ctx context.Context, category model.Category) ([]model.CatalogItem, error)
}

// ChatLogger persists handled shopping queries and the feedback on them.
type ChatLogger interface {
	LogChat(ctx context.Context, entry *model.ChatLogEntry) error
	LogFeedback(ctx context.Context, chatID string, productID int64, action string) error
}

// ErrChatLogDisabled is returned for feedback when no chat log is configured.
var ErrChatLogDisabled = errors.New("chat log disabled")

// ChatEventCallback is called for streaming chat events
type ChatEventCallback func(event string, data any) error

// ChatService runs the chat pipeline: classify, extract intent, fetch,
// rank, reply. It is shared by the anonymous and authenticated endpoints.
type ChatService struct {
	intent  *IntentParser
	catalog ProductLister
	ranker  *Ranker
	chatLog ChatLogger
	metrics *metrics.Metrics
	logger  *zap.Logger
	pick    func(n int) int
	pending sync.WaitGroup

	// writes holds chat ids whose log row is still being inserted.
	writesMu sync.Mutex
	writes   map[string]chan struct{}
}

// NewChatService creates a new chat service. chatLog may be nil.
func NewChatService(
	intentParser *IntentParser,
	catalog ProductLister,
	ranker *Ranker,
	chatLog ChatLogger,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		intent:  intentParser,
		catalog: catalog,
		ranker:  ranker,
		chatLog: chatLog,
		metrics: m,
		logger:  logger,
		pick:    rand.IntN,
		writes:  make(map[string]chan struct{}),
	}
}

// HandleChat answers one chat message. userID is empty for anonymous callers.
func (s *ChatService) HandleChat(ctx context.Context, message, userID string) (*model.ChatResponse, error) {
	return s.HandleChatStream(ctx, message, userID, nil)
}

// HandleChatStream is HandleChat with progress events. A callback error
// aborts the request.
func (s *ChatService) HandleChatStream(ctx context.Context, message, userID string, callback ChatEventCallback) (*model.ChatResponse, error) {
	startTime := time.Now()
	emit := func(event string, data any) error {
		if callback == nil {
			return nil
		}
		return callback(event, data)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind := ClassifyMessage(message)
	if err := emit("classified", map[string]any{"kind": kind}); err != nil {
		return nil, err
	}

	switch kind {
	case model.MessageGreeting:
		resp := s.smallTalk(model.QueryGreeting, GreetingReply(message, s.pick), startTime)
		return resp, nil
	case model.MessageGeneral:
		resp := s.smallTalk(model.QueryGeneral, GeneralReply(s.pick), startTime)
		return resp, nil
	}

	var minRating *float64
	if r, ok := ExtractRatingThreshold(message); ok {
		minRating = &r
	}

	intent := s.intent.Parse(ctx, message)
	if err := emit("intent", map[string]any{"intent": intent, "min_rating": minRating}); err != nil {
		return nil, err
	}

	products := []model.ScoredProduct{}
	meta := model.RankingMetadata{AvailableColors: []model.Color{}}
	if intent.IsShopping() {
		if err := emit("searching", map[string]any{"status": "Searching the catalog...", "category": intent.Category}); err != nil {
			return nil, err
		}
		items := s.fetch(ctx, intent.Category)
		products, meta = s.ranker.Rank(intent, minRating, items)
	}

	reply := Synthesize(products, intent.Color, minRating, meta)

	formatted := make([]model.FormattedProduct, len(products))
	for i, p := range products {
		formatted[i] = FormatProduct(p, &meta)
	}

	filters := &model.ChatFilters{MinRating: minRating}
	if intent.Color != "" {
		color := intent.Color
		filters.ColorRequested = &color
	}

	took := time.Since(startTime)
	resp := &model.ChatResponse{
		Success:   true,
		ChatID:    uuid.NewString(),
		Reply:     reply,
		Products:  formatted,
		QueryType: model.QueryShopping,
		Filters:   filters,
		Metadata:  &meta,
		Intent:    &intent,
		Took:      took.Milliseconds(),
	}
	s.metrics.ObserveChat(string(model.QueryShopping), took)

	s.logger.Info("chat handled",
		zap.String("chat_id", resp.ChatID),
		zap.String("category", string(intent.Category)),
		zap.String("color", string(intent.Color)),
		zap.Strings("keywords", intent.Keywords),
		zap.Int("results", len(formatted)),
		zap.Bool("exact_color_found", meta.ExactColorFound),
		zap.Int64("took_ms", resp.Took),
	)

	s.logChat(resp, message, userID, products)
	return resp, nil
}

// LogFeedback records a user action on a product from an earlier reply.
// Feedback on a chat whose log row is still being written waits for it.
func (s *ChatService) LogFeedback(ctx context.Context, chatID string, productID int64, action string) error {
	if s.chatLog == nil {
		return ErrChatLogDisabled
	}

	s.writesMu.Lock()
	done, inFlight := s.writes[chatID]
	s.writesMu.Unlock()
	if inFlight {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.chatLog.LogFeedback(ctx, chatID, productID, action)
}

// Wait blocks until pending chat log writes finish.
func (s *ChatService) Wait() {
	s.pending.Wait()
}

func (s *ChatService) smallTalk(queryType model.QueryType, reply string, start time.Time) *model.ChatResponse {
	took := time.Since(start)
	s.metrics.ObserveChat(string(queryType), took)
	return &model.ChatResponse{
		Success:   true,
		Reply:     reply,
		Products:  []model.FormattedProduct{},
		QueryType: queryType,
		Took:      took.Milliseconds(),
	}
}

// fetch treats every catalog failure as an empty catalog.
func (s *ChatService) fetch(ctx context.Context, category model.Category) []model.CatalogItem {
	items, err := s.catalog.ListProducts(ctx, category)
	if err != nil {
		s.logger.Warn("catalog fetch failed, treating as empty",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		s.metrics.CatalogError()
		return nil
	}
	return items
}

// logChat writes the chat log entry without blocking the response.
func (s *ChatService) logChat(resp *model.ChatResponse, message, userID string, products []model.ScoredProduct) {
	if s.chatLog == nil {
		return
	}

	entry := &model.ChatLogEntry{
		ChatID:      resp.ChatID,
		Message:     message,
		QueryType:   string(resp.QueryType),
		Intent:      model.IntentMap(*resp.Intent),
		MinRating:   resp.Filters.MinRating,
		ProductIDs:  make([]int64, len(products)),
		ResultCount: len(products),
		DurationMs:  resp.Took,
	}
	if userID != "" {
		entry.UserID = &userID
	}
	for i, p := range products {
		entry.ProductIDs[i] = p.ID
	}

	done := make(chan struct{})
	s.writesMu.Lock()
	s.writes[entry.ChatID] = done
	s.writesMu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() {
			s.writesMu.Lock()
			delete(s.writes, entry.ChatID)
			s.writesMu.Unlock()
			close(done)
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.chatLog.LogChat(ctx, entry); err != nil {
			s.logger.Warn("failed to write chat log", zap.String("chat_id", entry.ChatID), zap.Error(err))
		}
	}()
}
