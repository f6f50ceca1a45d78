// Package service contains the application's business logic: the account
// lifecycle, the conversation/Q&A flow, and profile preferences. Services
// depend on the store repositories, the mail collaborator and the retrieval
// backend client, and expose their behavior through small interfaces so the
// transport layer can be tested against hand-rolled fakes.
package service

import (
	"github.com/MKhiriev/go-reg-assist/internal/config"
	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/mailer"
	"github.com/MKhiriev/go-reg-assist/internal/rag"
	"github.com/MKhiriev/go-reg-assist/internal/store"
)

// Services aggregates all business-logic services consumed by the transport
// layer.
type Services struct {
	AccountService
	ConversationService
	ProfileService
}

// NewServices wires the service layer from its collaborators.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, mail mailer.Mailer, ragClient rag.Client, log *logger.Logger) *Services {
	log.Debug().Msg("creating services")

	return &Services{
		AccountService:      NewAccountService(storages.UserRepository, storages.ConversationRepository, cfg.App, mail, log),
		ConversationService: NewConversationService(storages.UserRepository, storages.ConversationRepository, ragClient, log),
		ProfileService:      NewProfileService(storages.UserRepository, log),
	}
}
