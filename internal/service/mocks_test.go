package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-reg-assist/internal/mailer"
	"github.com/MKhiriev/go-reg-assist/internal/rag"
	"github.com/MKhiriev/go-reg-assist/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createFn              func(ctx context.Context, user models.User) (models.User, error)
	findByEmailFn         func(ctx context.Context, email string) (models.User, error)
	findByIDFn            func(ctx context.Context, userID string) (models.User, error)
	findByOriginalEmailFn func(ctx context.Context, email string) (models.User, error)
	findByVerifyTokenFn   func(ctx context.Context, tokenHash string) (models.User, error)
	findByResetTokenFn    func(ctx context.Context, tokenHash string) (models.User, error)
	updateFn              func(ctx context.Context, user models.User) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, userID)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByOriginalEmail(ctx context.Context, email string) (models.User, error) {
	if m.findByOriginalEmailFn != nil {
		return m.findByOriginalEmailFn(ctx, email)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByVerificationToken(ctx context.Context, tokenHash string) (models.User, error) {
	if m.findByVerifyTokenFn != nil {
		return m.findByVerifyTokenFn(ctx, tokenHash)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByResetToken(ctx context.Context, tokenHash string) (models.User, error) {
	if m.findByResetTokenFn != nil {
		return m.findByResetTokenFn(ctx, tokenHash)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user models.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) ClearExpiredTokens(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.ConversationRepository
// ─────────────────────────────────────────────

type mockConversationRepository struct {
	createFn   func(ctx context.Context, conversation models.Conversation) (models.Conversation, error)
	findByIDFn func(ctx context.Context, userID, conversationID string) (models.Conversation, error)
	listFn     func(ctx context.Context, userID string, includeArchived bool) ([]models.Conversation, error)
	updateFn   func(ctx context.Context, conversation models.Conversation) error
	archiveFn  func(ctx context.Context, userID, conversationID string, archivedAt time.Time) error
	deleteFn   func(ctx context.Context, userID, conversationID string) error
}

func (m *mockConversationRepository) Create(ctx context.Context, conversation models.Conversation) (models.Conversation, error) {
	if m.createFn != nil {
		return m.createFn(ctx, conversation)
	}
	return conversation, nil
}

func (m *mockConversationRepository) FindByID(ctx context.Context, userID, conversationID string) (models.Conversation, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, userID, conversationID)
	}
	return models.Conversation{}, nil
}

func (m *mockConversationRepository) List(ctx context.Context, userID string, includeArchived bool) ([]models.Conversation, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, includeArchived)
	}
	return nil, nil
}

func (m *mockConversationRepository) Update(ctx context.Context, conversation models.Conversation) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, conversation)
	}
	return nil
}

func (m *mockConversationRepository) Archive(ctx context.Context, userID, conversationID string, archivedAt time.Time) error {
	if m.archiveFn != nil {
		return m.archiveFn(ctx, userID, conversationID, archivedAt)
	}
	return nil
}

func (m *mockConversationRepository) Delete(ctx context.Context, userID, conversationID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, conversationID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: mailer.Mailer
// ─────────────────────────────────────────────

// mockMailer records outbound messages; a non-nil sendErr fails every send.
type mockMailer struct {
	sent    []mailer.Message
	sendErr error
}

func (m *mockMailer) Send(_ context.Context, message mailer.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, message)
	return nil
}

// ─────────────────────────────────────────────
// Mock: rag.Client
// ─────────────────────────────────────────────

var _ rag.Client = (*mockRAGClient)(nil)

type mockRAGClient struct {
	queryFn  func(ctx context.Context, request rag.QueryRequest) (*rag.QueryAnswer, error)
	lookupFn func(ctx context.Context, request rag.ReferenceRequest) (*models.DocumentReference, error)
}

func (m *mockRAGClient) Query(ctx context.Context, request rag.QueryRequest) (*rag.QueryAnswer, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, request)
	}
	return &rag.QueryAnswer{}, nil
}

func (m *mockRAGClient) LookupReference(ctx context.Context, request rag.ReferenceRequest) (*models.DocumentReference, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, request)
	}
	return &models.DocumentReference{}, nil
}
