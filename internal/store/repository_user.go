package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup and full-row updates against the
// "users" table. The preferences, stats and recently-viewed documents are
// stored as JSONB columns and encoded/decoded at this boundary.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// encodeUserDocuments marshals the embedded JSONB documents of a user row.
func encodeUserDocuments(user models.User) (preferences, stats, recentlyViewed []byte, err error) {
	preferences, err = json.Marshal(user.Preferences)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: preferences: %w", ErrEncodingDocument, err)
	}

	stats, err = json.Marshal(user.Stats)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: stats: %w", ErrEncodingDocument, err)
	}

	viewed := user.RecentlyViewed
	if viewed == nil {
		viewed = map[models.Region][]models.RecentlyViewedPDF{}
	}
	recentlyViewed, err = json.Marshal(viewed)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: recently_viewed: %w", ErrEncodingDocument, err)
	}

	return preferences, stats, recentlyViewed, nil
}

// scanUser scans a full users row, decoding the embedded JSONB documents.
func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	var preferences, stats, recentlyViewed []byte

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.IsEmailVerified,
		&user.VerificationTokenHash,
		&user.VerificationExpiresAt,
		&user.VerificationAttempts,
		&user.VerificationLastSentAt,
		&user.ResetTokenHash,
		&user.ResetExpiresAt,
		&user.IsDeleted,
		&user.DeletedAt,
		&user.DeletionReason,
		&user.OriginalEmail,
		&user.OriginalName,
		&preferences,
		&stats,
		&recentlyViewed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if err = json.Unmarshal(preferences, &user.Preferences); err != nil {
		return models.User{}, fmt.Errorf("%w: preferences: %w", ErrDecodingDocument, err)
	}
	if err = json.Unmarshal(stats, &user.Stats); err != nil {
		return models.User{}, fmt.Errorf("%w: stats: %w", ErrDecodingDocument, err)
	}
	if err = json.Unmarshal(recentlyViewed, &user.RecentlyViewed); err != nil {
		return models.User{}, fmt.Errorf("%w: recently_viewed: %w", ErrDecodingDocument, err)
	}

	return user, nil
}

// CreateUser persists a new account record and returns the [models.User]
// with server-assigned timestamps (CreatedAt, UpdatedAt) populated.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	preferences, stats, recentlyViewed, err := encodeUserDocuments(user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: encoding embedded documents")
		return models.User{}, err
	}

	row := r.db.QueryRowContext(ctx, createUser,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.IsEmailVerified,
		user.VerificationTokenHash,
		user.VerificationExpiresAt,
		user.VerificationAttempts,
		user.VerificationLastSentAt,
		user.ResetTokenHash,
		user.ResetExpiresAt,
		user.IsDeleted,
		user.DeletedAt,
		user.DeletionReason,
		user.OriginalEmail,
		user.OriginalName,
		preferences,
		stats,
		recentlyViewed,
	)

	// create user in db
	if err = row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	// scan server-assigned timestamps
	if err = row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return user, nil
}

// FindUserByEmail retrieves the account whose email column matches exactly.
//
// Error handling:
//   - Empty result set → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

// FindUserByID retrieves the account with the given ID.
func (r *userRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

// FindUserByOriginalEmail retrieves the soft-deleted account whose
// pre-deletion email matches. Active accounts never match: the
// original_email column is populated only while an account is deleted.
func (r *userRepository) FindUserByOriginalEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByOriginalEmail", findUserByOriginalEmail, email)
}

// FindUserByVerificationToken retrieves the account holding the given email
// verification token hash. Accounts with no outstanding verification token
// (empty hash column) never match.
func (r *userRepository) FindUserByVerificationToken(ctx context.Context, tokenHash string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByVerificationToken", findUserByVerificationToken, tokenHash)
}

// FindUserByResetToken retrieves the account holding the given password
// reset token hash. Accounts with no outstanding reset token never match.
func (r *userRepository) FindUserByResetToken(ctx context.Context, tokenHash string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByResetToken", findUserByResetToken, tokenHash)
}

// findUser executes a single-row user lookup query with one argument and
// scans the result. Shared by all FindUserBy* methods.
func (r *userRepository) findUser(ctx context.Context, funcName string, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	foundUser, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.User{}, err
	}

	return foundUser, nil
}

// UpdateUser rewrites the full account row identified by user.ID and bumps
// updated_at. The row is written as a whole; callers are expected to load,
// mutate and save, so the last write wins.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists] (the
//     email column carries a unique index and restore can collide).
//   - Zero rows affected → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as [ErrExecutingStatement].
func (r *userRepository) UpdateUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	preferences, stats, recentlyViewed, err := encodeUserDocuments(user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: encoding embedded documents")
		return err
	}

	result, err := r.db.ExecContext(ctx, updateUser,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.IsEmailVerified,
		user.VerificationTokenHash,
		user.VerificationExpiresAt,
		user.VerificationAttempts,
		user.VerificationLastSentAt,
		user.ResetTokenHash,
		user.ResetExpiresAt,
		user.IsDeleted,
		user.DeletedAt,
		user.DeletionReason,
		user.OriginalEmail,
		user.OriginalName,
		preferences,
		stats,
		recentlyViewed,
	)
	if err != nil {
		if r.db.errorClassificator.Classify(err) == Retryable {
			log.Warn().
				Str("func", "*userRepository.UpdateUser").
				Str("user_id", user.ID).
				Msg("transient database error, safe to retry")
		}
		log.Err(err).Str("func", "*userRepository.UpdateUser").Str("user_id", user.ID).Msg("failed to update user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrEmailAlreadyExists
		default:
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Str("user_id", user.ID).Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// ClearExpiredTokens erases verification and reset token hashes whose expiry
// precedes now. The two token kinds are cleared independently; the returned
// count is the total number of rows touched.
func (r *userRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	var total int64
	for _, query := range []string{clearExpiredVerificationTokens, clearExpiredResetTokens} {
		result, err := r.db.ExecContext(ctx, query, now)
		if err != nil {
			log.Err(err).Str("func", "*userRepository.ClearExpiredTokens").Msg("failed to clear expired tokens")
			return total, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			log.Err(err).Str("func", "*userRepository.ClearExpiredTokens").Msg("failed to read affected rows")
			return total, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		total += affected
	}

	return total, nil
}
