package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for file-based configuration.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey         string   `json:"token_sign_key"`
		TokenIssuer          string   `json:"token_issuer"`
		TokenAudience        string   `json:"token_audience"`
		SessionTokenDuration Duration `json:"session_token_duration"`
		VerificationTokenTTL Duration `json:"verification_token_ttl"`
		ResetTokenTTL        Duration `json:"reset_token_ttl"`
		BaseURL              string   `json:"base_url"`
		AdminKey             string   `json:"admin_key"`
		Environment          string   `json:"environment"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Mail struct {
		Host     string `json:"smtp_host"`
		Port     int    `json:"smtp_port"`
		Username string `json:"smtp_username"`
		Password string `json:"smtp_password"`
		From     string `json:"from"`
	} `json:"mail,omitempty"`

	RAG struct {
		BaseURL       string   `json:"base_url"`
		QueryTimeout  Duration `json:"query_timeout"`
		LookupTimeout Duration `json:"lookup_timeout"`
	} `json:"rag,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:         jsonCfg.App.TokenSignKey,
			TokenIssuer:          jsonCfg.App.TokenIssuer,
			TokenAudience:        jsonCfg.App.TokenAudience,
			SessionTokenDuration: time.Duration(jsonCfg.App.SessionTokenDuration),
			VerificationTokenTTL: time.Duration(jsonCfg.App.VerificationTokenTTL),
			ResetTokenTTL:        time.Duration(jsonCfg.App.ResetTokenTTL),
			BaseURL:              jsonCfg.App.BaseURL,
			AdminKey:             jsonCfg.App.AdminKey,
			Environment:          jsonCfg.App.Environment,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Mail: Mail{
			Host:     jsonCfg.Mail.Host,
			Port:     jsonCfg.Mail.Port,
			Username: jsonCfg.Mail.Username,
			Password: jsonCfg.Mail.Password,
			From:     jsonCfg.Mail.From,
		},
		RAG: RAG{
			BaseURL:       jsonCfg.RAG.BaseURL,
			QueryTimeout:  time.Duration(jsonCfg.RAG.QueryTimeout),
			LookupTimeout: time.Duration(jsonCfg.RAG.LookupTimeout),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
