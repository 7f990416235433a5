package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/autumninthecloud/AIBillBrief/internal/ai"
	"github.com/autumninthecloud/AIBillBrief/internal/model"
	"github.com/autumninthecloud/AIBillBrief/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageEmpty    = errors.New("message content is empty")
	ErrMessageEnqueue  = errors.New("message enqueue failed")
)

// AsyncMessagePublisher hands a conversation turn to the persistence queue.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// HistoryCache fronts the message table for history reads. The dirty marker
// covers the gap between publishing a turn and the worker writing it.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, sessionID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, sessionID uint) error
	MarkDirty(ctx context.Context, sessionID uint) error
	IsDirty(ctx context.Context, sessionID uint) (bool, error)
}

// ChatService orchestrates a conversation turn: resolve the session, retrieve
// bill context for the question, assemble the prompt with recent history and
// corpus stats, run the model, and queue both turns for persistence.
type ChatService struct {
	sessionRepo   *repository.SessionRepository
	messageRepo   *repository.MessageRepository
	publisher     AsyncMessagePublisher
	historyCache  HistoryCache
	bills         *BillService
	llm           *ai.Client
	historyWindow int
	chunkLimit    int
}

func NewChatService(
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	bills *BillService,
	llm *ai.Client,
	historyWindow int,
	chunkLimit int,
) *ChatService {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	if chunkLimit <= 0 {
		chunkLimit = 5
	}
	return &ChatService{
		sessionRepo:   sessionRepo,
		messageRepo:   messageRepo,
		publisher:     publisher,
		historyCache:  historyCache,
		bills:         bills,
		llm:           llm,
		historyWindow: historyWindow,
		chunkLimit:    chunkLimit,
	}
}

type CreateSessionInput struct {
	UserID uint
	Title  string
}

type SendMessageInput struct {
	UserID    uint
	SessionID uint
	Content   string
	Model     string
}

type SendMessageResult struct {
	Messages      []model.Message `json:"messages"`
	RetrievalMode string          `json:"retrieval_mode"`
	Retrieval     string          `json:"retrieval_summary"`
	Model         string          `json:"model"`
}

func (s *ChatService) CreateSession(input CreateSessionInput) (*model.Session, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Chat"
	}

	session := &model.Session{
		UserID: input.UserID,
		Title:  title,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) ListSessions(userID uint) ([]model.Session, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(userID)
}

func (s *ChatService) DeleteSession(userID, sessionID uint) error {
	if userID == 0 || sessionID == 0 {
		return ErrInvalidInput
	}
	session, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.messageRepo.DeleteBySessionID(sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteByIDAndUserID(sessionID, userID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(context.Background(), sessionID)
	}
	return nil
}

// SendMessage runs one full conversation turn synchronously.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	turn, err := s.prepareTurn(ctx, input)
	if err != nil {
		return nil, err
	}

	answer := turn.cannedAnswer
	if answer == "" {
		answer, err = s.llm.Complete(ctx, turn.model, turn.prompt)
		if err != nil {
			return nil, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = "The model returned an empty response."
		}
	}

	assistantMessage, err := s.recordAssistantTurn(ctx, input, answer)
	if err != nil {
		return nil, err
	}

	return &SendMessageResult{
		Messages:      []model.Message{turn.userMessage, *assistantMessage},
		RetrievalMode: turn.retrievalMode,
		Retrieval:     turn.retrievalSummary,
		Model:         turn.model,
	}, nil
}

// StreamMessage is SendMessage with the model output delivered incrementally
// through onChunk. The canned no-context answer is streamed as a single chunk.
func (s *ChatService) StreamMessage(
	ctx context.Context,
	input SendMessageInput,
	onChunk func(string) error,
) (string, error) {
	turn, err := s.prepareTurn(ctx, input)
	if err != nil {
		return "", err
	}

	full := turn.cannedAnswer
	if full != "" {
		if err := onChunk(full); err != nil {
			return "", err
		}
	} else {
		full, err = s.llm.StreamComplete(ctx, turn.model, turn.prompt, onChunk)
		if err != nil {
			return "", err
		}
		full = strings.TrimSpace(full)
		if full == "" {
			full = "The model returned an empty response."
		}
	}

	if _, err := s.recordAssistantTurn(ctx, input, full); err != nil {
		return "", err
	}
	return full, nil
}

func (s *ChatService) GetHistory(userID, sessionID uint, limit int) ([]model.Message, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	ctx := context.Background()
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, sessionID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.messageRepo.ListBySessionID(sessionID, limit)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, sessionID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, sessionID, messages)
		}
	}
	return messages, nil
}

// preparedTurn carries everything the completion step needs once validation,
// retrieval and the user-side publish are done.
type preparedTurn struct {
	userMessage      model.Message
	prompt           string
	model            string
	retrievalMode    string
	retrievalSummary string
	cannedAnswer     string
}

func (s *ChatService) prepareTurn(ctx context.Context, input SendMessageInput) (*preparedTurn, error) {
	if input.UserID == 0 || input.SessionID == 0 {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	session, err := s.sessionRepo.GetByIDAndUserID(input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	resolvedModel, err := s.llm.ResolveModel(input.Model)
	if err != nil {
		return nil, err
	}

	history, err := s.messageRepo.ListRecentBySessionID(input.SessionID, s.historyWindow)
	if err != nil {
		return nil, err
	}

	query := s.bills.Query(ctx, content, s.chunkLimit)

	// Stats are prompt garnish; a cache or database hiccup must not block
	// the turn.
	stats, err := s.bills.Stats(ctx)
	if err != nil {
		stats = nil
	}

	turn := &preparedTurn{
		prompt:           BuildPrompt(stats, history, query.FormattedContext, content),
		model:            resolvedModel,
		retrievalMode:    query.Mode,
		retrievalSummary: query.Summary,
	}
	if strings.TrimSpace(query.FormattedContext) == "" {
		turn.cannedAnswer = NoInformationAnswer
	}

	turn.userMessage = model.Message{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		Role:      "user",
		Content:   content,
		CreatedAt: time.Now(),
	}
	if s.publisher == nil {
		return nil, ErrMessageEnqueue
	}
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, input.SessionID)
		_ = s.historyCache.DeleteHistory(ctx, input.SessionID)
	}
	if err := s.publisher.Publish(ctx, turn.userMessage); err != nil {
		return nil, ErrMessageEnqueue
	}
	return turn, nil
}

func (s *ChatService) recordAssistantTurn(ctx context.Context, input SendMessageInput, answer string) (*model.Message, error) {
	assistantMessage := &model.Message{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		Role:      "assistant",
		Content:   answer,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, *assistantMessage); err != nil {
		return nil, ErrMessageEnqueue
	}
	return assistantMessage, nil
}

func trimMessages(messages []model.Message, limit int) []model.Message {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}
