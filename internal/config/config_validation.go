package config

import "time"

// Default values applied to optional settings that were not provided by any
// configuration source.
const (
	DefaultSessionTokenDuration = 168 * time.Hour // 7 days
	DefaultVerificationTokenTTL = 24 * time.Hour
	DefaultResetTokenTTL        = 10 * time.Minute
	DefaultRequestTimeout       = 60 * time.Second
	DefaultRAGQueryTimeout      = 30 * time.Second
	DefaultRAGLookupTimeout     = 10 * time.Second
	DefaultHTTPAddress          = ":8080"
	DefaultEnvironment          = "production"
)

// applyDefaults fills zero-valued optional fields with their defaults.
// Required secrets (sign key, DSN, base URLs) have no defaults and are
// checked by validate instead.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.SessionTokenDuration == 0 {
		cfg.App.SessionTokenDuration = DefaultSessionTokenDuration
	}
	if cfg.App.VerificationTokenTTL == 0 {
		cfg.App.VerificationTokenTTL = DefaultVerificationTokenTTL
	}
	if cfg.App.ResetTokenTTL == 0 {
		cfg.App.ResetTokenTTL = DefaultResetTokenTTL
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = DefaultEnvironment
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.RAG.QueryTimeout == 0 {
		cfg.RAG.QueryTimeout = DefaultRAGQueryTimeout
	}
	if cfg.RAG.LookupTimeout == 0 {
		cfg.RAG.LookupTimeout = DefaultRAGLookupTimeout
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenAudience == "" || cfg.App.BaseURL == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.RAG.BaseURL == "" {
		return ErrInvalidRAGConfigs
	}

	// Mail is optional as a whole, but a partially specified SMTP setup is
	// a deployment mistake.
	if cfg.Mail.Host != "" && (cfg.Mail.Port == 0 || cfg.Mail.From == "") {
		return ErrInvalidMailConfigs
	}

	return nil
}

// IsDevelopment reports whether the server runs in development mode, in
// which error responses include internal detail.
func (cfg *StructuredConfig) IsDevelopment() bool {
	return cfg.App.Environment == "development"
}
