package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	"github.com/abbasia-institute/portal-api/pkg/ai"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

// Transcript fallbacks, surfaced as regular model turns.
const (
	emptyReplyFallback = "عذراً، لم أتمكن من فهم ذلك. هل يمكنك إعادة السؤال؟"
	errorFallback      = "حدث خطأ أثناء التواصل مع المساعد الذكي. يرجى المحاولة مرة أخرى لاحقاً."
)

type assistantClient interface {
	Reply(ctx context.Context, history []models.Message, prompt string) (string, error)
}

// AssistantService owns the chat transcript for the signed-in student. The
// transcript is append-only and lives only in memory: it is seeded with a
// greeting at login, grows one user/model pair per turn, and dies with the
// session. At most one turn is in flight at a time.
type AssistantService struct {
	client   assistantClient
	sessions *session.Store
	logger   *zap.Logger
	metrics  *MetricsService

	mu         sync.Mutex
	busy       bool
	transcript []models.Message
}

// NewAssistantService constructs an AssistantService instance. A nil client
// keeps the chat usable: every turn then answers with the error fallback.
func NewAssistantService(client assistantClient, sessions *session.Store, logger *zap.Logger, metrics *MetricsService) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantService{client: client, sessions: sessions, logger: logger, metrics: metrics}
}

// Greeting builds the opening model turn for a student.
func Greeting(student models.Student) models.Message {
	return models.Message{
		Role: models.RoleModel,
		Text: "أهلاً بك يا " + student.FullName + "! أنا عباس، مساعدك الذكي في معهد العباسية. كيف يمكنني مساعدتك في دراستك اليوم؟",
	}
}

// Greet resets the transcript to a fresh greeting for the given student.
// Called at login and by the chat's clear action.
func (s *AssistantService) Greet(student models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = []models.Message{Greeting(student)}
}

// Send runs one chat turn: the prompt is appended as a user entry, the full
// prior transcript is resent to the model, and the reply (or an Arabic
// fallback on failure) is appended as a model entry. The user entry stays in
// the transcript even when the turn fails.
//
// A blank prompt is ignored without a call or a transcript change. A second
// Send while one is in flight is rejected, not queued.
func (s *AssistantService) Send(ctx context.Context, prompt string) ([]models.Message, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return s.Transcript(), nil
	}

	if !s.sessions.Authenticated() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		s.metrics.RecordAssistantTurn("rejected")
		return nil, appErrors.Clone(appErrors.ErrAssistantBusy, "")
	}
	s.busy = true
	history := make([]models.Message, len(s.transcript))
	copy(history, s.transcript)
	s.transcript = append(s.transcript, models.Message{Role: models.RoleUser, Text: prompt})
	s.mu.Unlock()

	reply, outcome := s.reply(ctx, history, prompt)
	s.metrics.RecordAssistantTurn(outcome)

	s.mu.Lock()
	s.transcript = append(s.transcript, models.Message{Role: models.RoleModel, Text: reply})
	s.busy = false
	out := make([]models.Message, len(s.transcript))
	copy(out, s.transcript)
	s.mu.Unlock()

	return out, nil
}

// reply performs the network call outside the transcript lock.
func (s *AssistantService) reply(ctx context.Context, history []models.Message, prompt string) (string, string) {
	if s.client == nil {
		return errorFallback, "fallback"
	}

	text, err := s.client.Reply(ctx, history, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyReply) {
			s.logger.Warn("assistant returned no text")
			return emptyReplyFallback, "fallback"
		}
		s.logger.Error("assistant call failed", zap.Error(err))
		return errorFallback, "fallback"
	}
	return text, "ok"
}

// Transcript returns a copy of the current transcript.
func (s *AssistantService) Transcript() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Clear resets the chat to a single fresh greeting for the session subject.
func (s *AssistantService) Clear() ([]models.Message, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	s.Greet(student)
	return s.Transcript(), nil
}

// Reset drops the transcript entirely. Called when the session ends.
func (s *AssistantService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	s.busy = false
}
