package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing token sign key, issuer, audience, or base URL).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidMailConfigs indicates a partially specified SMTP setup
	// (host present but port or sender address missing).
	ErrInvalidMailConfigs = errors.New("invalid mail configuration")
	// ErrInvalidRAGConfigs indicates invalid retrieval backend settings
	// (for example, an empty base URL).
	ErrInvalidRAGConfigs = errors.New("invalid rag configuration")
)
