package store

import "github.com/MKhiriev/go-reg-assist/internal/logger"

// Storages bundles every repository behind a single dependency for the
// service layer.
type Storages struct {
	UserRepository         UserRepository
	ConversationRepository ConversationRepository
}

// NewStorages constructs all repositories over the shared database
// connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:         NewUserRepository(db, log),
		ConversationRepository: NewConversationRepository(db, log),
	}
}
