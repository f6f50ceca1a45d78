package http

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-reg-assist/internal/config"
	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/service"
	"github.com/MKhiriev/go-reg-assist/models"
)

// ─────────────────────────────────────────────
// Mock: service.AccountService
// ─────────────────────────────────────────────

type mockAccountService struct {
	signupFn             func(ctx context.Context, request models.SignupRequest) (models.AuthResponse, error)
	verifyEmailFn        func(ctx context.Context, token string) error
	resendVerificationFn func(ctx context.Context, email string) error
	loginFn              func(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error)
	parseTokenFn         func(ctx context.Context, tokenString string) (models.Token, error)
	forgotPasswordFn     func(ctx context.Context, email string) error
	resetPasswordFn      func(ctx context.Context, token, newPassword string) error
	softDeleteFn         func(ctx context.Context, userID, reason string) (models.DeletionSummary, error)
	deletionPreviewFn    func(ctx context.Context, userID string) (models.DeletionSummary, error)
	restoreFn            func(ctx context.Context, originalEmail string) (models.User, error)
	meFn                 func(ctx context.Context, userID string) (models.User, error)
}

func (m *mockAccountService) Signup(ctx context.Context, request models.SignupRequest) (models.AuthResponse, error) {
	if m.signupFn != nil {
		return m.signupFn(ctx, request)
	}
	return models.AuthResponse{}, nil
}

func (m *mockAccountService) VerifyEmail(ctx context.Context, token string) error {
	if m.verifyEmailFn != nil {
		return m.verifyEmailFn(ctx, token)
	}
	return nil
}

func (m *mockAccountService) ResendVerification(ctx context.Context, email string) error {
	if m.resendVerificationFn != nil {
		return m.resendVerificationFn(ctx, email)
	}
	return nil
}

func (m *mockAccountService) Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, request)
	}
	return models.AuthResponse{}, nil
}

func (m *mockAccountService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn != nil {
		return m.parseTokenFn(ctx, tokenString)
	}
	return models.Token{UserID: "u-1"}, nil
}

func (m *mockAccountService) ForgotPassword(ctx context.Context, email string) error {
	if m.forgotPasswordFn != nil {
		return m.forgotPasswordFn(ctx, email)
	}
	return nil
}

func (m *mockAccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(ctx, token, newPassword)
	}
	return nil
}

func (m *mockAccountService) SoftDelete(ctx context.Context, userID, reason string) (models.DeletionSummary, error) {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, userID, reason)
	}
	return models.DeletionSummary{}, nil
}

func (m *mockAccountService) DeletionPreview(ctx context.Context, userID string) (models.DeletionSummary, error) {
	if m.deletionPreviewFn != nil {
		return m.deletionPreviewFn(ctx, userID)
	}
	return models.DeletionSummary{}, nil
}

func (m *mockAccountService) Restore(ctx context.Context, originalEmail string) (models.User, error) {
	if m.restoreFn != nil {
		return m.restoreFn(ctx, originalEmail)
	}
	return models.User{}, nil
}

func (m *mockAccountService) Me(ctx context.Context, userID string) (models.User, error) {
	if m.meFn != nil {
		return m.meFn(ctx, userID)
	}
	return models.User{ID: userID}, nil
}

// ─────────────────────────────────────────────
// Mock: service.ConversationService
// ─────────────────────────────────────────────

type mockConversationService struct {
	askFn             func(ctx context.Context, userID string, request models.AskRequest) (models.AskResponse, error)
	listFn            func(ctx context.Context, userID string, includeArchived bool) ([]models.Conversation, error)
	getFn             func(ctx context.Context, userID, conversationID string) (models.Conversation, error)
	editMessageFn     func(ctx context.Context, userID string, request models.EditMessageRequest) (models.EditMessageResponse, error)
	recordFeedbackFn  func(ctx context.Context, userID string, request models.FeedbackRequest) (models.FeedbackResponse, error)
	getFeedbackFn     func(ctx context.Context, userID, conversationID, messageID string) (models.FeedbackResponse, error)
	archiveFn         func(ctx context.Context, userID, conversationID string) (models.ArchiveOutcome, error)
	clearAllFn        func(ctx context.Context, userID string, permanent bool) (models.ClearResult, error)
	clearAllPreviewFn func(ctx context.Context, userID string, permanent bool) (models.ClearResult, error)
}

func (m *mockConversationService) Ask(ctx context.Context, userID string, request models.AskRequest) (models.AskResponse, error) {
	if m.askFn != nil {
		return m.askFn(ctx, userID, request)
	}
	return models.AskResponse{}, nil
}

func (m *mockConversationService) ListConversations(ctx context.Context, userID string, includeArchived bool) ([]models.Conversation, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, includeArchived)
	}
	return nil, nil
}

func (m *mockConversationService) GetConversation(ctx context.Context, userID, conversationID string) (models.Conversation, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, conversationID)
	}
	return models.Conversation{}, nil
}

func (m *mockConversationService) EditMessage(ctx context.Context, userID string, request models.EditMessageRequest) (models.EditMessageResponse, error) {
	if m.editMessageFn != nil {
		return m.editMessageFn(ctx, userID, request)
	}
	return models.EditMessageResponse{}, nil
}

func (m *mockConversationService) RecordFeedback(ctx context.Context, userID string, request models.FeedbackRequest) (models.FeedbackResponse, error) {
	if m.recordFeedbackFn != nil {
		return m.recordFeedbackFn(ctx, userID, request)
	}
	return models.FeedbackResponse{}, nil
}

func (m *mockConversationService) GetFeedback(ctx context.Context, userID, conversationID, messageID string) (models.FeedbackResponse, error) {
	if m.getFeedbackFn != nil {
		return m.getFeedbackFn(ctx, userID, conversationID, messageID)
	}
	return models.FeedbackResponse{}, nil
}

func (m *mockConversationService) ArchiveConversation(ctx context.Context, userID, conversationID string) (models.ArchiveOutcome, error) {
	if m.archiveFn != nil {
		return m.archiveFn(ctx, userID, conversationID)
	}
	return models.OutcomeArchived, nil
}

func (m *mockConversationService) ClearAll(ctx context.Context, userID string, permanent bool) (models.ClearResult, error) {
	if m.clearAllFn != nil {
		return m.clearAllFn(ctx, userID, permanent)
	}
	return models.ClearResult{}, nil
}

func (m *mockConversationService) ClearAllPreview(ctx context.Context, userID string, permanent bool) (models.ClearResult, error) {
	if m.clearAllPreviewFn != nil {
		return m.clearAllPreviewFn(ctx, userID, permanent)
	}
	return models.ClearResult{}, nil
}

// ─────────────────────────────────────────────
// Mock: service.ProfileService
// ─────────────────────────────────────────────

type mockProfileService struct {
	themeFn               func(ctx context.Context, userID string) (models.Theme, error)
	setThemeFn            func(ctx context.Context, userID string, theme models.Theme) (models.Theme, error)
	recentlyViewedFn      func(ctx context.Context, userID string, region models.Region) ([]models.RecentlyViewedPDF, error)
	addRecentlyViewedFn   func(ctx context.Context, userID string, region models.Region, request models.RecentlyViewedRequest) ([]models.RecentlyViewedPDF, error)
	clearRecentlyViewedFn func(ctx context.Context, userID string, region models.Region) error
}

func (m *mockProfileService) Theme(ctx context.Context, userID string) (models.Theme, error) {
	if m.themeFn != nil {
		return m.themeFn(ctx, userID)
	}
	return models.ThemeLight, nil
}

func (m *mockProfileService) SetTheme(ctx context.Context, userID string, theme models.Theme) (models.Theme, error) {
	if m.setThemeFn != nil {
		return m.setThemeFn(ctx, userID, theme)
	}
	return theme, nil
}

func (m *mockProfileService) RecentlyViewed(ctx context.Context, userID string, region models.Region) ([]models.RecentlyViewedPDF, error) {
	if m.recentlyViewedFn != nil {
		return m.recentlyViewedFn(ctx, userID, region)
	}
	return nil, nil
}

func (m *mockProfileService) AddRecentlyViewed(ctx context.Context, userID string, region models.Region, request models.RecentlyViewedRequest) ([]models.RecentlyViewedPDF, error) {
	if m.addRecentlyViewedFn != nil {
		return m.addRecentlyViewedFn(ctx, userID, region, request)
	}
	return nil, nil
}

func (m *mockProfileService) ClearRecentlyViewed(ctx context.Context, userID string, region models.Region) error {
	if m.clearRecentlyViewedFn != nil {
		return m.clearRecentlyViewedFn(ctx, userID, region)
	}
	return nil
}

// ─────────────────────────────────────────────
// Test server helpers
// ─────────────────────────────────────────────

// testServices bundles the three fakes into a service container.
func testServices(account *mockAccountService, conversation *mockConversationService, profile *mockProfileService) *service.Services {
	if account == nil {
		account = &mockAccountService{}
	}
	if conversation == nil {
		conversation = &mockConversationService{}
	}
	if profile == nil {
		profile = &mockProfileService{}
	}
	return &service.Services{
		AccountService:      account,
		ConversationService: conversation,
		ProfileService:      profile,
	}
}

// newTestServer spins up the full route tree over the given services.
func newTestServer(t *testing.T, services *service.Services, cfg config.App) *httptest.Server {
	t.Helper()

	handler := NewHandler(services, cfg, logger.Nop())
	srv := httptest.NewServer(handler.Init())
	t.Cleanup(srv.Close)
	return srv
}
