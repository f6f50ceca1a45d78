package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/rag"
	"github.com/MKhiriev/go-reg-assist/internal/store"
	"github.com/MKhiriev/go-reg-assist/internal/utils"
	"github.com/MKhiriev/go-reg-assist/internal/validators"
	"github.com/MKhiriev/go-reg-assist/models"
)

// maxTitleRunes caps the conversation title derived from the first question.
const maxTitleRunes = 80

// conversationService is the production implementation of
// [ConversationService]. It owns the Q&A flow against the retrieval backend
// and all message-level operations on stored conversations.
type conversationService struct {
	users         store.UserRepository
	conversations store.ConversationRepository
	rag           rag.Client
	validator     validators.Validator
	logger        *logger.Logger
}

// NewConversationService constructs a [ConversationService].
func NewConversationService(users store.UserRepository, conversations store.ConversationRepository, ragClient rag.Client, log *logger.Logger) ConversationService {
	log.Debug().Msg("creating conversation service")
	return &conversationService{
		users:         users,
		conversations: conversations,
		rag:           ragClient,
		validator:     validators.NewFeedbackValidator(),
		logger:        log,
	}
}

// titleFromQuestion derives a conversation title from the first question.
func titleFromQuestion(question string) string {
	if utf8.RuneCountInString(question) <= maxTitleRunes {
		return question
	}
	runes := []rune(question)
	return string(runes[:maxTitleRunes])
}

// activeUser loads the account and hides soft-deleted ones.
func (s *conversationService) activeUser(ctx context.Context, funcName, userID string) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrAccountNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error looking up account")
		return models.User{}, err
	}
	if user.IsDeleted {
		return models.User{}, ErrAccountNotFound
	}
	return user, nil
}

// Ask submits a regulation question to the retrieval backend and appends the
// exchange to the target conversation.
//
// Nothing is persisted when the backend call fails: the question is not
// recorded without its answer. The account's query counter update afterwards
// is advisory and never fails the request.
func (s *conversationService) Ask(ctx context.Context, userID string, request models.AskRequest) (models.AskResponse, error) {
	log := logger.FromContext(ctx)

	question := strings.TrimSpace(request.Question)
	if question == "" {
		return models.AskResponse{}, fmt.Errorf("%w: question is required", ErrValidation)
	}

	user, err := s.activeUser(ctx, "*conversationService.Ask", userID)
	if err != nil {
		return models.AskResponse{}, err
	}

	codeType := request.CodeType
	if codeType == "" {
		codeType = user.Preferences.DefaultCodeType
	}
	if !codeType.Valid() {
		return models.AskResponse{}, fmt.Errorf("%w: unsupported code type %q", ErrValidation, codeType)
	}

	var conversation models.Conversation
	isNew := request.ConversationID == ""
	if isNew {
		conversation = models.Conversation{
			ID:       utils.NewID(),
			UserID:   userID,
			Title:    titleFromQuestion(question),
			Messages: []models.Message{},
			Metadata: models.ConversationMetadata{CodeType: codeType},
		}
	} else {
		conversation, err = s.conversations.FindByID(ctx, userID, request.ConversationID)
		if err != nil {
			if errors.Is(err, store.ErrConversationNotFound) {
				return models.AskResponse{}, ErrConversationNotFound
			}
			log.Err(err).Str("func", "*conversationService.Ask").Msg("error loading conversation")
			return models.AskResponse{}, err
		}
	}

	answer, err := s.rag.Query(ctx, rag.QueryRequest{
		Question: question,
		CodeType: codeType,
		History:  conversation.Messages,
	})
	if err != nil {
		log.Err(err).Str("func", "*conversationService.Ask").Str("code_type", string(codeType)).Msg("retrieval backend query failed")
		return models.AskResponse{}, err
	}

	now := time.Now()
	conversation.Messages = append(conversation.Messages,
		models.Message{
			ID:        utils.NewID(),
			Role:      models.RoleUser,
			Content:   question,
			Timestamp: now,
		},
		models.Message{
			ID:        utils.NewID(),
			Role:      models.RoleAssistant,
			Content:   answer.Answer,
			Timestamp: now,
			Regulation: &models.RegulationAnswer{
				Confidence:       answer.Confidence,
				ProcessingTimeMS: int64(answer.ProcessingTimeMS),
				References:       answer.References,
			},
		},
	)

	if isNew {
		conversation, err = s.conversations.Create(ctx, conversation)
	} else {
		err = s.conversations.Update(ctx, conversation)
	}
	if err != nil {
		log.Err(err).Str("func", "*conversationService.Ask").Str("conversation_id", conversation.ID).Msg("error persisting conversation")
		return models.AskResponse{}, err
	}

	user.Stats.QueriesCount++
	if err = s.users.UpdateUser(ctx, user); err != nil {
		log.Warn().Err(err).Str("func", "*conversationService.Ask").Str("user_id", userID).Msg("failed to bump query counter")
	}

	assistantMessage := conversation.Messages[len(conversation.Messages)-1]

	return models.AskResponse{
		Conversation: &conversation,
		Answer:       &assistantMessage,
	}, nil
}

// ListConversations returns the user's conversations, newest-updated first.
func (s *conversationService) ListConversations(ctx context.Context, userID string, includeArchived bool) ([]models.Conversation, error) {
	conversations, err := s.conversations.List(ctx, userID, includeArchived)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*conversationService.ListConversations").Msg("error listing conversations")
		return nil, err
	}
	return conversations, nil
}

// GetConversation returns one conversation with its full message log.
func (s *conversationService) GetConversation(ctx context.Context, userID string, conversationID string) (models.Conversation, error) {
	conversation, err := s.conversations.FindByID(ctx, userID, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			return models.Conversation{}, ErrConversationNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*conversationService.GetConversation").Msg("error loading conversation")
		return models.Conversation{}, err
	}
	return conversation, nil
}

// EditMessage rewrites a user message addressed by index.
//
// With ShouldRegenerate set, every message after the edited one is discarded
// (the stale answer and anything built on it), leaving the edited question as
// the log's tail so the answer can be recomputed with a follow-up Ask.
func (s *conversationService) EditMessage(ctx context.Context, userID string, request models.EditMessageRequest) (models.EditMessageResponse, error) {
	log := logger.FromContext(ctx)

	conversation, err := s.conversations.FindByID(ctx, userID, request.ConversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			return models.EditMessageResponse{}, ErrConversationNotFound
		}
		log.Err(err).Str("func", "*conversationService.EditMessage").Msg("error loading conversation")
		return models.EditMessageResponse{}, err
	}

	index := request.MessageIndex
	if index < 0 || index >= len(conversation.Messages) {
		return models.EditMessageResponse{}, ErrInvalidIndex
	}
	if conversation.Messages[index].Role != models.RoleUser {
		return models.EditMessageResponse{}, ErrNotEditable
	}

	content := strings.TrimSpace(request.NewContent)
	if content == "" {
		return models.EditMessageResponse{}, ErrEmptyContent
	}

	conversation.Messages[index].Edit(content, time.Now())

	removed := 0
	if request.ShouldRegenerate {
		removed = len(conversation.Messages) - (index + 1)
		conversation.Messages = conversation.Messages[:index+1]
	}

	if err = s.conversations.Update(ctx, conversation); err != nil {
		log.Err(err).Str("func", "*conversationService.EditMessage").Str("conversation_id", conversation.ID).Msg("error persisting edit")
		return models.EditMessageResponse{}, err
	}

	return models.EditMessageResponse{
		Conversation:     &conversation,
		ShouldRegenerate: request.ShouldRegenerate,
		RemovedMessages:  removed,
	}, nil
}

// RecordFeedback attaches a vote to an assistant message. Re-voting
// overwrites the record; the overwritten vote is kept in PreviousVote.
func (s *conversationService) RecordFeedback(ctx context.Context, userID string, request models.FeedbackRequest) (models.FeedbackResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, request); err != nil {
		return models.FeedbackResponse{}, err
	}

	conversation, err := s.conversations.FindByID(ctx, userID, request.ConversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			return models.FeedbackResponse{}, ErrConversationNotFound
		}
		log.Err(err).Str("func", "*conversationService.RecordFeedback").Msg("error loading conversation")
		return models.FeedbackResponse{}, err
	}

	message, _ := conversation.MessageByID(request.MessageID)
	if message == nil {
		return models.FeedbackResponse{}, ErrMessageNotFound
	}
	if message.Role != models.RoleAssistant {
		return models.FeedbackResponse{}, ErrFeedbackNotAllowed
	}

	feedback := models.MessageFeedback{
		Vote:      request.Vote,
		IssueType: request.IssueType,
		Details:   request.Details,
		VotedAt:   time.Now(),
	}
	if message.Feedback != nil {
		feedback.PreviousVote = message.Feedback.Vote
	}
	message.Feedback = &feedback

	if err = s.conversations.Update(ctx, conversation); err != nil {
		log.Err(err).Str("func", "*conversationService.RecordFeedback").Str("conversation_id", conversation.ID).Msg("error persisting feedback")
		return models.FeedbackResponse{}, err
	}

	return models.FeedbackResponse{MessageID: message.ID, Feedback: message.Feedback}, nil
}

// GetFeedback returns the feedback record of one assistant message. A
// never-voted message yields a response with nil Feedback, not an error.
func (s *conversationService) GetFeedback(ctx context.Context, userID string, conversationID string, messageID string) (models.FeedbackResponse, error) {
	conversation, err := s.conversations.FindByID(ctx, userID, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			return models.FeedbackResponse{}, ErrConversationNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*conversationService.GetFeedback").Msg("error loading conversation")
		return models.FeedbackResponse{}, err
	}

	message, _ := conversation.MessageByID(messageID)
	if message == nil {
		return models.FeedbackResponse{}, ErrMessageNotFound
	}

	return models.FeedbackResponse{MessageID: message.ID, Feedback: message.Feedback}, nil
}

// ArchiveConversation archives one conversation. Archiving an archived
// conversation reports [models.OutcomeAlreadyArchived] without touching the
// row.
func (s *conversationService) ArchiveConversation(ctx context.Context, userID string, conversationID string) (models.ArchiveOutcome, error) {
	log := logger.FromContext(ctx)

	conversation, err := s.conversations.FindByID(ctx, userID, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			return models.OutcomeError, ErrConversationNotFound
		}
		log.Err(err).Str("func", "*conversationService.ArchiveConversation").Msg("error loading conversation")
		return models.OutcomeError, err
	}

	now := time.Now()
	if !conversation.Archive(now) {
		return models.OutcomeAlreadyArchived, nil
	}

	if err = s.conversations.Archive(ctx, userID, conversationID, now); err != nil {
		log.Err(err).Str("func", "*conversationService.ArchiveConversation").Str("conversation_id", conversationID).Msg("error persisting archive")
		return models.OutcomeError, err
	}

	return models.OutcomeArchived, nil
}

// ClearAll archives (or with permanent set, deletes) every conversation of
// the account. Per-item failures are recorded in the result and do not abort
// the batch. Permanent clearing is gated at the transport layer.
func (s *conversationService) ClearAll(ctx context.Context, userID string, permanent bool) (models.ClearResult, error) {
	log := logger.FromContext(ctx)

	conversations, err := s.conversations.List(ctx, userID, true)
	if err != nil {
		log.Err(err).Str("func", "*conversationService.ClearAll").Msg("error listing conversations")
		return models.ClearResult{}, err
	}

	now := time.Now()
	result := models.ClearResult{
		Permanent: permanent,
		Details:   make([]models.ClearDetail, 0, len(conversations)),
	}

	for _, conversation := range conversations {
		detail := models.ClearDetail{ConversationID: conversation.ID}

		switch {
		case permanent:
			if err = s.conversations.Delete(ctx, userID, conversation.ID); err != nil {
				detail.Outcome = models.OutcomeError
				detail.Error = err.Error()
				result.Errors++
			} else {
				detail.Outcome = models.OutcomeDeleted
				result.DeletedCount++
			}

		case conversation.Metadata.IsArchived:
			detail.Outcome = models.OutcomeAlreadyArchived
			result.AlreadyArchived++

		default:
			if err = s.conversations.Archive(ctx, userID, conversation.ID, now); err != nil {
				detail.Outcome = models.OutcomeError
				detail.Error = err.Error()
				result.Errors++
			} else {
				detail.Outcome = models.OutcomeArchived
				result.DeletedCount++
			}
		}

		if detail.Outcome == models.OutcomeError {
			log.Warn().
				Str("func", "*conversationService.ClearAll").
				Str("conversation_id", conversation.ID).
				Str("error", detail.Error).
				Msg("bulk clear failed for conversation")
		}

		result.Details = append(result.Details, detail)
	}

	return result, nil
}

// ClearAllPreview reports what ClearAll would do without mutating anything.
func (s *conversationService) ClearAllPreview(ctx context.Context, userID string, permanent bool) (models.ClearResult, error) {
	conversations, err := s.conversations.List(ctx, userID, true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*conversationService.ClearAllPreview").Msg("error listing conversations")
		return models.ClearResult{}, err
	}

	result := models.ClearResult{
		Permanent: permanent,
		Details:   make([]models.ClearDetail, 0, len(conversations)),
	}

	for _, conversation := range conversations {
		detail := models.ClearDetail{ConversationID: conversation.ID, Outcome: models.OutcomeArchived}
		switch {
		case permanent:
			detail.Outcome = models.OutcomeDeleted
			result.DeletedCount++
		case conversation.Metadata.IsArchived:
			detail.Outcome = models.OutcomeAlreadyArchived
			result.AlreadyArchived++
		default:
			result.DeletedCount++
		}
		result.Details = append(result.Details, detail)
	}

	return result, nil
}
