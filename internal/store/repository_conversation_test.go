package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/models"
)

func newTestConversationRepo(t *testing.T) (*conversationRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &conversationRepository{
		DB:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func TestConversationCreate_Success(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()
	conversation := models.Conversation{
		ID:     "c-1",
		UserID: "u-1",
		Title:  "Fire exits in high-rise buildings",
		Messages: []models.Message{
			{ID: "m-1", Role: models.RoleUser, Content: "How many fire exits are required?"},
		},
		Metadata: models.ConversationMetadata{CodeType: models.RegionIndia},
	}

	now := time.Now()
	rows := sqlmock.
		NewRows([]string{"created_at", "updated_at"}).
		AddRow(now, now)

	mock.ExpectQuery("INSERT INTO conversations").
		WillReturnRows(rows)

	created, err := repo.Create(ctx, conversation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "c-1" {
		t.Errorf("expected ID=c-1, got %s", created.ID)
	}
	if !created.CreatedAt.Equal(now) {
		t.Errorf("expected CreatedAt to be populated from the database")
	}
}

func TestConversationCreate_QueryError(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO conversations").
		WillReturnError(errors.New("db network error"))

	_, err := repo.Create(ctx, models.Conversation{ID: "c-1", UserID: "u-1"})
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestConversationFindByID_Success(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	messages := []byte(`[
		{"id":"m-1","role":"user","content":"How many fire exits are required?","timestamp":"2026-01-02T15:04:05Z"},
		{"id":"m-2","role":"assistant","content":"At least two independent exits."}
	]`)

	rows := sqlmock.NewRows(conversationColumns).
		AddRow("c-1", "u-1", "Fire exits", messages, false, nil, "india", now, now)

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("c-1", "u-1").
		WillReturnRows(rows)

	found, err := repo.FindByID(ctx, "u-1", "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found.Messages) != 2 {
		t.Fatalf("expected 2 decoded messages, got %d", len(found.Messages))
	}
	if found.Messages[0].Role != models.RoleUser {
		t.Errorf("expected first message role user, got %s", found.Messages[0].Role)
	}
	if found.Messages[1].Content != "At least two independent exits." {
		t.Errorf("unexpected second message content: %s", found.Messages[1].Content)
	}
	if found.Metadata.CodeType != models.RegionIndia {
		t.Errorf("expected code type india, got %s", found.Metadata.CodeType)
	}
}

func TestConversationFindByID_NotFound(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("c-404", "u-1").
		WillReturnRows(sqlmock.NewRows(conversationColumns))

	_, err := repo.FindByID(ctx, "u-1", "c-404")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationFindByID_DecodeError(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(conversationColumns).
		AddRow("c-1", "u-1", "Broken", []byte(`not-json`), false, nil, "india", now, now)

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("c-1", "u-1").
		WillReturnRows(rows)

	_, err := repo.FindByID(ctx, "u-1", "c-1")
	if !errors.Is(err, ErrDecodingDocument) {
		t.Fatalf("expected ErrDecodingDocument, got %v", err)
	}
}

func TestConversationList_Success(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows(conversationColumns).
		AddRow("c-2", "u-1", "Staircase widths", []byte(`[]`), false, nil, "scotland", now, now).
		AddRow("c-1", "u-1", "Fire exits", []byte(`[]`), false, nil, "india", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("u-1", false).
		WillReturnRows(rows)

	listed, err := repo.List(ctx, "u-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(listed))
	}
	if listed[0].ID != "c-2" {
		t.Errorf("expected newest-updated conversation first, got %s", listed[0].ID)
	}
}

func TestConversationList_IncludeArchived(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	archivedAt := now.Add(-time.Minute)

	rows := sqlmock.NewRows(conversationColumns).
		AddRow("c-3", "u-1", "Archived talk", []byte(`[]`), true, archivedAt, "dubai", now, now)

	// includeArchived drops the is_archived filter, leaving user_id as the only arg
	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("u-1").
		WillReturnRows(rows)

	listed, err := repo.List(ctx, "u-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(listed))
	}
	if !listed[0].Metadata.IsArchived {
		t.Error("expected archived conversation in result")
	}
	if listed[0].Metadata.ArchivedAt == nil {
		t.Error("expected ArchivedAt to be populated")
	}
}

func TestConversationList_Empty(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("u-1", false).
		WillReturnRows(sqlmock.NewRows(conversationColumns))

	listed, err := repo.List(ctx, "u-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty result, got %d conversations", len(listed))
	}
}

func TestConversationUpdate_Success(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()
	conversation := models.Conversation{
		ID:     "c-1",
		UserID: "u-1",
		Title:  "Fire exits",
		Messages: []models.Message{
			{ID: "m-1", Role: models.RoleUser, Content: "edited question", IsEdited: true},
		},
	}

	mock.ExpectExec("UPDATE conversations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(ctx, conversation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConversationUpdate_NotFound(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE conversations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(ctx, models.Conversation{ID: "c-404", UserID: "u-1"})
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationArchive_Success(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()
	archivedAt := time.Now()

	mock.ExpectExec("UPDATE conversations").
		WithArgs("c-1", "u-1", archivedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Archive(ctx, "u-1", "c-1", archivedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConversationArchive_NotFound(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE conversations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Archive(ctx, "u-1", "c-404", time.Now())
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationDelete_Success(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM conversations").
		WithArgs("c-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(ctx, "u-1", "c-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConversationDelete_NotFound(t *testing.T) {
	repo, mock, db := newTestConversationRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM conversations").
		WithArgs("c-404", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(ctx, "u-1", "c-404")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}
