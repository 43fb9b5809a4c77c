package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/internal/assistant"
	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/dto"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

const (
	summaryCandidateLimit = 50
	defaultSessionIdleTTL = time.Hour
)

type chatSession struct {
	history  []assistant.Message
	lastUsed time.Time
}

// AssistantServiceConfig tunes chat sessions.
type AssistantServiceConfig struct {
	SessionIdleTTL time.Duration
}

// AssistantService runs chats and priority summaries against the generative-text provider.
// A nil provider disables every operation.
type AssistantService struct {
	store     snapshotReader
	provider  assistant.Provider
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cfg       AssistantServiceConfig

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewAssistantService constructs the service.
func NewAssistantService(store snapshotReader, provider assistant.Provider, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg AssistantServiceConfig) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionIdleTTL <= 0 {
		cfg.SessionIdleTTL = defaultSessionIdleTTL
	}
	return &AssistantService{
		store:     store,
		provider:  provider,
		metrics:   metrics,
		validator: domainValidator(validate),
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
		sessions:  make(map[string]*chatSession),
	}
}

// Enabled reports whether a provider is configured.
func (s *AssistantService) Enabled() bool {
	return s != nil && s.provider != nil
}

func errAssistantDisabled() error {
	return appErrors.Clone(appErrors.ErrUnavailable, "assistant disabled: no API key configured")
}

// StartChat opens a session seeded with the current schools and work requests.
func (s *AssistantService) StartChat(ctx context.Context) (*dto.ChatResponse, error) {
	if !s.Enabled() {
		return nil, errAssistantDisabled()
	}
	snap := s.store.Snapshot()
	instruction, err := assistant.ChatInstruction(snap.Schools, snap.WorkRequests)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare chat")
	}
	session := &chatSession{
		history: []assistant.Message{
			{Role: assistant.RoleSystem, Content: instruction},
			{Role: assistant.RoleAssistant, Content: assistant.Greeting},
		},
		lastUsed: s.now(),
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[id] = session
	s.mu.Unlock()

	s.logger.Info("assistant chat started", zap.String("session_id", id), zap.Uint64("snapshot_version", snap.Version))
	return &dto.ChatResponse{SessionID: id, Messages: visible(session.history)}, nil
}

// SendMessage sends one user turn. The turn is kept in history only when the provider answers.
func (s *AssistantService) SendMessage(ctx context.Context, sessionID string, req dto.ChatMessageRequest) (*dto.ChatResponse, error) {
	if !s.Enabled() {
		return nil, errAssistantDisabled()
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid chat message")
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message is required")
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	var conversation []assistant.Message
	if ok {
		conversation = append(append([]assistant.Message(nil), session.history...), assistant.Message{Role: assistant.RoleUser, Content: text})
	}
	s.mu.Unlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "chat session not found")
	}

	reply, err := s.provider.Complete(ctx, conversation)
	s.metrics.RecordAssistantCall("chat", err)
	if err != nil {
		s.logger.Warn("assistant chat turn failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, providerError(err)
	}

	s.mu.Lock()
	session.history = append(session.history,
		assistant.Message{Role: assistant.RoleUser, Content: text},
		assistant.Message{Role: assistant.RoleAssistant, Content: reply},
	)
	session.lastUsed = s.now()
	history := visible(session.history)
	s.mu.Unlock()

	return &dto.ChatResponse{SessionID: sessionID, Reply: reply, Messages: history}, nil
}

// EndChat discards a session.
func (s *AssistantService) EndChat(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "chat session not found")
	}
	delete(s.sessions, sessionID)
	return nil
}

// Summarize asks for the most important open requests with a short reason for each.
func (s *AssistantService) Summarize(ctx context.Context) (*dto.SummaryResponse, error) {
	if !s.Enabled() {
		return nil, errAssistantDisabled()
	}
	snap := s.store.Snapshot()
	dir := board.NewDirectory(snap.Programs, snap.Schools)
	ranked := board.Hotlist(snap.WorkRequests, summaryCandidateLimit)
	entries := make([]assistant.SummaryEntry, 0, len(ranked))
	for _, r := range ranked {
		entries = append(entries, assistant.SummaryEntry{
			ID:          r.ID,
			Description: r.Description,
			Priority:    r.Priority,
			Status:      r.Status,
			DueDate:     r.DueDate,
			Submitted:   r.SubmittedDate,
			ProgramName: dir.ProgramName(r.ProgramID),
			SchoolName:  dir.SchoolName(r.SchoolID),
		})
	}
	if len(entries) == 0 {
		return &dto.SummaryResponse{Summary: "There are no open work requests.", Requests: entries}, nil
	}

	prompt, err := assistant.SummaryPrompt(entries)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare summary")
	}
	reply, err := s.provider.Complete(ctx, []assistant.Message{{Role: assistant.RoleUser, Content: prompt}})
	s.metrics.RecordAssistantCall("summary", err)
	if err != nil {
		s.logger.Warn("assistant summary failed", zap.Int("candidates", len(entries)), zap.Error(err))
		return nil, providerError(err)
	}
	return &dto.SummaryResponse{Summary: reply, Requests: entries}, nil
}

func (s *AssistantService) pruneLocked() {
	cutoff := s.now().Add(-s.cfg.SessionIdleTTL)
	for id, session := range s.sessions {
		if session.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func providerError(err error) error {
	message := "assistant request failed, please try again"
	if errors.Is(err, context.DeadlineExceeded) {
		message = "assistant timed out, please try again"
	}
	return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, message)
}

func visible(history []assistant.Message) []assistant.Message {
	out := make([]assistant.Message, 0, len(history))
	for _, msg := range history {
		if msg.Role != assistant.RoleSystem {
			out = append(out, msg)
		}
	}
	return out
}
