package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/MKhiriev/go-reg-assist/internal/config"
	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/mailer"
	"github.com/MKhiriev/go-reg-assist/internal/store"
	"github.com/MKhiriev/go-reg-assist/internal/utils"
	"github.com/MKhiriev/go-reg-assist/models"
)

const (
	// minPasswordLength is the minimum accepted password length in bytes.
	minPasswordLength = 8

	// resendCooldown is the minimum interval between verification emails.
	resendCooldown = time.Minute

	// maxVerificationAttempts caps how many verification emails one account
	// may receive in total.
	maxVerificationAttempts = 5
)

// accountService is the production implementation of [AccountService].
//
// One-time tokens (verification, password reset) exist in plaintext only in
// the outbound email; the repositories see SHA-256 hashes exclusively.
type accountService struct {
	users         store.UserRepository
	conversations store.ConversationRepository
	cfg           config.App
	mail          mailer.Mailer
	logger        *logger.Logger
}

// NewAccountService constructs an [AccountService].
func NewAccountService(users store.UserRepository, conversations store.ConversationRepository, cfg config.App, mail mailer.Mailer, log *logger.Logger) AccountService {
	log.Debug().Msg("creating account service")
	return &accountService{
		users:         users,
		conversations: conversations,
		cfg:           cfg,
		mail:          mail,
		logger:        log,
	}
}

// normalizeEmail lowercases and trims an email address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail reports whether the address parses as a bare RFC 5322 address.
func validEmail(email string) bool {
	parsed, err := mail.ParseAddress(email)
	return err == nil && parsed.Address == email
}

// Signup registers a new account.
//
// The account starts unverified with an outstanding verification token; the
// session token is issued immediately so the client can poll verification
// state. Email delivery is best-effort: a failed send degrades the response
// (EmailSent=false) without rolling the account back.
func (s *accountService) Signup(ctx context.Context, request models.SignupRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(request.Email)
	name := strings.TrimSpace(request.Name)

	switch {
	case name == "":
		return models.AuthResponse{}, fmt.Errorf("%w: name is required", ErrValidation)
	case !validEmail(email):
		return models.AuthResponse{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	case len(request.Password) < minPasswordLength:
		return models.AuthResponse{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	passwordHash, err := utils.HashPassword(request.Password)
	if err != nil {
		log.Err(err).Str("func", "*accountService.Signup").Msg("error hashing password")
		return models.AuthResponse{}, err
	}

	verification, err := utils.NewOneTimeToken(s.cfg.VerificationTokenTTL)
	if err != nil {
		log.Err(err).Str("func", "*accountService.Signup").Msg("error issuing verification token")
		return models.AuthResponse{}, err
	}

	now := time.Now()
	user := models.User{
		ID:                     utils.NewID(),
		Email:                  email,
		Name:                   name,
		PasswordHash:           passwordHash,
		VerificationTokenHash:  verification.Hash,
		VerificationExpiresAt:  &verification.ExpiresAt,
		VerificationAttempts:   1,
		VerificationLastSentAt: &now,
		Preferences: models.Preferences{
			Theme:           models.ThemeLight,
			DefaultCodeType: models.RegionIndia,
		},
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.AuthResponse{}, ErrEmailInUse
		}
		log.Err(err).Str("func", "*accountService.Signup").Msg("error creating user")
		return models.AuthResponse{}, err
	}

	token, err := utils.GenerateSessionToken(s.cfg.TokenIssuer, s.cfg.TokenAudience, created, s.cfg.SessionTokenDuration, s.cfg.TokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*accountService.Signup").Msg("error generating session token")
		return models.AuthResponse{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	response := models.AuthResponse{
		User:        &created,
		Token:       token.SignedString,
		EmailSent:   true,
		EmailStatus: "sent",
	}

	message := mailer.NewVerificationMessage(created.Email, created.Name, s.cfg.BaseURL, verification.Plaintext, s.cfg.VerificationTokenTTL)
	if err = s.mail.Send(ctx, message); err != nil {
		log.Warn().Err(err).Str("func", "*accountService.Signup").Str("user_id", created.ID).Msg("verification email delivery failed")
		response.EmailSent = false
		response.EmailStatus = err.Error()
	}

	return response, nil
}

// VerifyEmail consumes a plaintext verification token. The token is hashed
// and looked up; a match that has expired is rejected the same way as no
// match at all, so callers cannot probe token validity.
func (s *accountService) VerifyEmail(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	if token == "" {
		return ErrInvalidOrExpiredToken
	}

	user, err := s.users.FindUserByVerificationToken(ctx, utils.HashOneTimeToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Debug().Str("func", "*accountService.VerifyEmail").Msg("verification token matched no account")
			return ErrInvalidOrExpiredToken
		}
		log.Err(err).Str("func", "*accountService.VerifyEmail").Msg("error looking up verification token")
		return err
	}

	if !utils.MatchOneTimeToken(token, user.VerificationTokenHash) {
		return ErrInvalidOrExpiredToken
	}
	if user.VerificationExpiresAt == nil || time.Now().After(*user.VerificationExpiresAt) {
		log.Debug().Str("func", "*accountService.VerifyEmail").Str("user_id", user.ID).Msg("verification token expired")
		return ErrInvalidOrExpiredToken
	}

	user.IsEmailVerified = true
	user.VerificationTokenHash = ""
	user.VerificationExpiresAt = nil

	if err = s.users.UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("func", "*accountService.VerifyEmail").Str("user_id", user.ID).Msg("error persisting verification")
		return err
	}

	return nil
}

// ResendVerification re-issues the verification token and sends a fresh
// email. The previous token is invalidated by the overwrite. Unlike signup,
// a delivery failure here is the whole point of the call and is returned.
func (s *accountService) ResendVerification(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountService.ResendVerification").Msg("error looking up account")
		return err
	}

	switch {
	case user.IsDeleted:
		return ErrAccountNotFound
	case user.IsEmailVerified:
		return ErrAlreadyVerified
	case user.VerificationAttempts >= maxVerificationAttempts:
		return ErrResendRateLimited
	case user.VerificationLastSentAt != nil && time.Since(*user.VerificationLastSentAt) < resendCooldown:
		return ErrResendRateLimited
	}

	verification, err := utils.NewOneTimeToken(s.cfg.VerificationTokenTTL)
	if err != nil {
		log.Err(err).Str("func", "*accountService.ResendVerification").Msg("error issuing verification token")
		return err
	}

	now := time.Now()
	user.VerificationTokenHash = verification.Hash
	user.VerificationExpiresAt = &verification.ExpiresAt
	user.VerificationAttempts++
	user.VerificationLastSentAt = &now

	if err = s.users.UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("func", "*accountService.ResendVerification").Str("user_id", user.ID).Msg("error persisting re-issued token")
		return err
	}

	message := mailer.NewVerificationMessage(user.Email, user.Name, s.cfg.BaseURL, verification.Plaintext, s.cfg.VerificationTokenTTL)
	if err = s.mail.Send(ctx, message); err != nil {
		log.Err(err).Str("func", "*accountService.ResendVerification").Str("user_id", user.ID).Msg("verification email delivery failed")
		return err
	}

	return nil
}

// Login authenticates an account by email and password.
//
// The deleted-account check deliberately precedes the password check: a
// soft-deleted account answers [ErrAccountDeleted] regardless of whether the
// supplied password is correct.
func (s *accountService) Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(request.Email)
	if email == "" || request.Password == "" {
		return models.AuthResponse{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.AuthResponse{}, ErrInvalidCredentials
		}
		log.Err(err).Str("func", "*accountService.Login").Msg("error looking up account")
		return models.AuthResponse{}, err
	}

	if user.IsDeleted {
		return models.AuthResponse{}, ErrAccountDeleted
	}
	if !utils.CheckPassword(request.Password, user.PasswordHash) {
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	if !user.IsEmailVerified {
		return models.AuthResponse{}, ErrEmailNotVerified
	}

	now := time.Now()
	user.Stats.LastLoginAt = &now
	if err = s.users.UpdateUser(ctx, user); err != nil {
		// login still succeeds; the timestamp is advisory
		log.Warn().Err(err).Str("func", "*accountService.Login").Str("user_id", user.ID).Msg("failed to record login time")
	}

	token, err := utils.GenerateSessionToken(s.cfg.TokenIssuer, s.cfg.TokenAudience, user, s.cfg.SessionTokenDuration, s.cfg.TokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*accountService.Login").Str("user_id", user.ID).Msg("error generating session token")
		return models.AuthResponse{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.AuthResponse{User: &user, Token: token.SignedString}, nil
}

// ParseToken validates a session JWT and returns its decoded form. All
// validation failures normalize to [ErrTokenIsExpiredOrInvalid].
func (s *accountService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseSessionToken(tokenString, s.cfg.TokenSignKey, s.cfg.TokenIssuer, s.cfg.TokenAudience)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "*accountService.ParseToken").Msg("session token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	return token, nil
}

// ForgotPassword starts a password reset. The response never discloses
// whether the address is registered: unknown and deleted accounts are
// silently ignored, as are delivery failures.
func (s *accountService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, store.ErrNoUserWasFound) {
			log.Err(err).Str("func", "*accountService.ForgotPassword").Msg("error looking up account")
		}
		return nil
	}
	if user.IsDeleted {
		return nil
	}

	reset, err := utils.NewOneTimeToken(s.cfg.ResetTokenTTL)
	if err != nil {
		log.Err(err).Str("func", "*accountService.ForgotPassword").Msg("error issuing reset token")
		return nil
	}

	user.ResetTokenHash = reset.Hash
	user.ResetExpiresAt = &reset.ExpiresAt

	if err = s.users.UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("func", "*accountService.ForgotPassword").Str("user_id", user.ID).Msg("error persisting reset token")
		return nil
	}

	message := mailer.NewPasswordResetMessage(user.Email, user.Name, s.cfg.BaseURL, reset.Plaintext, s.cfg.ResetTokenTTL)
	if err = s.mail.Send(ctx, message); err != nil {
		log.Warn().Err(err).Str("func", "*accountService.ForgotPassword").Str("user_id", user.ID).Msg("reset email delivery failed")
	}

	return nil
}

// ResetPassword consumes a plaintext reset token and sets a new password.
// The token is single-use: the stored hash is cleared on success.
func (s *accountService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	log := logger.FromContext(ctx)

	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if token == "" {
		return ErrInvalidOrExpiredToken
	}

	user, err := s.users.FindUserByResetToken(ctx, utils.HashOneTimeToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return ErrInvalidOrExpiredToken
		}
		log.Err(err).Str("func", "*accountService.ResetPassword").Msg("error looking up reset token")
		return err
	}

	if !utils.MatchOneTimeToken(token, user.ResetTokenHash) {
		return ErrInvalidOrExpiredToken
	}
	if user.ResetExpiresAt == nil || time.Now().After(*user.ResetExpiresAt) {
		log.Debug().Str("func", "*accountService.ResetPassword").Str("user_id", user.ID).Msg("reset token expired")
		return ErrInvalidOrExpiredToken
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		log.Err(err).Str("func", "*accountService.ResetPassword").Msg("error hashing password")
		return err
	}

	user.PasswordHash = passwordHash
	user.ResetTokenHash = ""
	user.ResetExpiresAt = nil

	if err = s.users.UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("func", "*accountService.ResetPassword").Str("user_id", user.ID).Msg("error persisting new password")
		return err
	}

	return nil
}

// SoftDelete marks the account deleted and archives its conversations.
//
// The cascade runs first and tolerates per-conversation failures; the account
// rewrite itself is the committing step. Already soft-deleted accounts answer
// [ErrAccountNotFound], matching every other authenticated operation.
func (s *accountService) SoftDelete(ctx context.Context, userID string, reason string) (models.DeletionSummary, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.DeletionSummary{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountService.SoftDelete").Msg("error looking up account")
		return models.DeletionSummary{}, err
	}
	if user.IsDeleted {
		return models.DeletionSummary{}, ErrAccountNotFound
	}

	now := time.Now()
	summary := models.DeletionSummary{UserID: userID, DeletedAt: &now}

	conversations, err := s.conversations.List(ctx, userID, true)
	if err != nil {
		log.Err(err).Str("func", "*accountService.SoftDelete").Str("user_id", userID).Msg("error listing conversations for cascade")
		return models.DeletionSummary{}, err
	}

	for _, conversation := range conversations {
		if conversation.Metadata.IsArchived {
			summary.AlreadyArchived++
			continue
		}
		if err = s.conversations.Archive(ctx, userID, conversation.ID, now); err != nil {
			log.Warn().Err(err).
				Str("func", "*accountService.SoftDelete").
				Str("conversation_id", conversation.ID).
				Msg("cascade failed to archive conversation")
			summary.Errors++
			continue
		}
		summary.ConversationsArchived++
	}

	user.MarkDeleted(strings.TrimSpace(reason), now)

	if err = s.users.UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("func", "*accountService.SoftDelete").Str("user_id", userID).Msg("error persisting soft deletion")
		return models.DeletionSummary{}, err
	}

	log.Info().
		Str("func", "*accountService.SoftDelete").
		Str("user_id", userID).
		Int("conversations_archived", summary.ConversationsArchived).
		Msg("account soft-deleted")

	return summary, nil
}

// DeletionPreview reports what SoftDelete would do without mutating anything.
func (s *accountService) DeletionPreview(ctx context.Context, userID string) (models.DeletionSummary, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.DeletionSummary{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountService.DeletionPreview").Msg("error looking up account")
		return models.DeletionSummary{}, err
	}
	if user.IsDeleted {
		return models.DeletionSummary{}, ErrAccountNotFound
	}

	conversations, err := s.conversations.List(ctx, userID, true)
	if err != nil {
		log.Err(err).Str("func", "*accountService.DeletionPreview").Str("user_id", userID).Msg("error listing conversations")
		return models.DeletionSummary{}, err
	}

	summary := models.DeletionSummary{UserID: userID, Preview: true}
	for _, conversation := range conversations {
		if conversation.Metadata.IsArchived {
			summary.AlreadyArchived++
		} else {
			summary.ConversationsArchived++
		}
	}

	return summary, nil
}

// Restore reverses a soft deletion. The lookup goes through the preserved
// original email because the live email column holds only the placeholder.
// Restoring fails with [ErrEmailInUse] when the original address was
// re-registered in the meantime.
func (s *accountService) Restore(ctx context.Context, originalEmail string) (models.User, error) {
	log := logger.FromContext(ctx)

	email := normalizeEmail(originalEmail)

	user, err := s.users.FindUserByOriginalEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			// distinguish "no such account" from "account exists and was
			// never deleted": only deleted rows carry original_email
			if active, activeErr := s.users.FindUserByEmail(ctx, email); activeErr == nil && !active.IsDeleted {
				return models.User{}, ErrNotDeleted
			}
			return models.User{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountService.Restore").Msg("error looking up deleted account")
		return models.User{}, err
	}

	user.Undelete()

	if err = s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.User{}, ErrEmailInUse
		}
		log.Err(err).Str("func", "*accountService.Restore").Str("user_id", user.ID).Msg("error persisting restore")
		return models.User{}, err
	}

	log.Info().Str("func", "*accountService.Restore").Str("user_id", user.ID).Msg("account restored")

	return user, nil
}

// Me returns the account record for the authenticated user.
func (s *accountService) Me(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrAccountNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*accountService.Me").Msg("error looking up account")
		return models.User{}, err
	}
	if user.IsDeleted {
		return models.User{}, ErrAccountNotFound
	}
	return user, nil
}
