package http

import (
	"github.com/MKhiriev/go-reg-assist/internal/config"
	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/service"
)

// Handler is the HTTP transport layer. It owns the route tree, middleware,
// and the translation of service errors into the uniform JSON error body.
type Handler struct {
	services *service.Services
	cfg      config.App

	logger *logger.Logger
}

// NewHandler constructs the HTTP handler. The app config supplies the admin
// key for gated operations and the environment flag that controls whether
// error responses carry internal detail.
func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		cfg:      cfg,
		logger:   logger,
	}
}

// devMode reports whether internal error detail may be exposed in responses.
func (h *Handler) devMode() bool {
	return h.cfg.Environment == "development"
}
