package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var userColumns = []string{
	"id", "email", "name", "password_hash", "is_email_verified",
	"verification_token_hash", "verification_token_expires_at", "verification_attempts", "verification_last_sent_at",
	"reset_token_hash", "reset_token_expires_at",
	"is_deleted", "deleted_at", "deletion_reason", "original_email", "original_name",
	"preferences", "stats", "recently_viewed", "created_at", "updated_at",
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

// fullUserRow returns a complete users row for the given identity with empty
// token state and default embedded documents.
func fullUserRow(id, email, name string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(
		id, email, name, "bcrypt-hash", true,
		"", nil, 0, nil,
		"", nil,
		false, nil, "", "", "",
		[]byte(`{"theme":"dark","default_code_type":"scotland"}`),
		[]byte(`{"queries_count":3}`),
		[]byte(`{}`),
		now, now,
	)
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		ID:           "u-1",
		Email:        "john@example.com",
		Name:         "John",
		PasswordHash: "bcrypt-hash",
	}

	now := time.Now()

	rows := sqlmock.
		NewRows([]string{"created_at", "updated_at"}).
		AddRow(now, now)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(rows)

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "u-1" {
		t.Errorf("expected ID=u-1, got %s", created.ID)
	}
	if !created.CreatedAt.Equal(now) {
		t.Errorf("expected CreatedAt to be populated from the database")
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{ID: "u-1", Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{ID: "u-1", Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, user)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("SELECT id, email").
		WithArgs("john@example.com").
		WillReturnRows(fullUserRow("u-1", "john@example.com", "John", now))

	found, err := repo.FindUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != "john@example.com" {
		t.Errorf("expected email john@example.com, got %s", found.Email)
	}
	if found.Preferences.Theme != models.ThemeDark {
		t.Errorf("expected decoded theme dark, got %s", found.Preferences.Theme)
	}
	if found.Preferences.DefaultCodeType != models.RegionScotland {
		t.Errorf("expected decoded code type scotland, got %s", found.Preferences.DefaultCodeType)
	}
	if found.Stats.QueriesCount != 3 {
		t.Errorf("expected decoded queries count 3, got %d", found.Stats.QueriesCount)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, email").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindUserByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByEmail_DecodeError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(userColumns).AddRow(
		"u-1", "john@example.com", "John", "hash", true,
		"", nil, 0, nil,
		"", nil,
		false, nil, "", "", "",
		[]byte(`not-json`), // broken preferences document
		[]byte(`{}`),
		[]byte(`{}`),
		now, now,
	)

	mock.ExpectQuery("SELECT id, email").
		WithArgs("john@example.com").
		WillReturnRows(rows)

	_, err := repo.FindUserByEmail(ctx, "john@example.com")
	if !errors.Is(err, ErrDecodingDocument) {
		t.Fatalf("expected ErrDecodingDocument, got %v", err)
	}
}

func TestFindUserByVerificationToken_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("SELECT id, email").
		WithArgs("token-hash").
		WillReturnRows(fullUserRow("u-1", "john@example.com", "John", now))

	found, err := repo.FindUserByVerificationToken(ctx, "token-hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != "u-1" {
		t.Errorf("expected ID u-1, got %s", found.ID)
	}
}

func TestFindUserByResetToken_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, email").
		WithArgs("stale-hash").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindUserByResetToken(ctx, "stale-hash")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestUpdateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{ID: "u-1", Email: "john@example.com", Name: "John"}

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{ID: "missing", Email: "john@example.com"}

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateUser(ctx, user)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestUpdateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{ID: "u-1", Email: "taken@example.com"}

	mock.ExpectExec("UPDATE users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	err := repo.UpdateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUpdateUser_ExecError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{ID: "u-1", Email: "john@example.com"}

	mock.ExpectExec("UPDATE users").
		WillReturnError(errors.New("db failure"))

	err := repo.UpdateUser(ctx, user)
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}

func TestClearExpiredTokens_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cleared, err := repo.ClearExpiredTokens(ctx, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleared != 3 {
		t.Fatalf("expected 3 cleared rows, got %d", cleared)
	}
}

func TestClearExpiredTokens_ExecError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WillReturnError(errors.New("db failure"))

	_, err := repo.ClearExpiredTokens(ctx, time.Now())
	if !errors.Is(err, ErrExecutingStatement) {
		t.Fatalf("expected ErrExecutingStatement, got %v", err)
	}
}
