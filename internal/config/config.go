package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server          ServerConfig              `json:"server" mapstructure:"server"`
	Twilio          TwilioConfig              `json:"twilio" mapstructure:"twilio"`
	Providers       map[string]ProviderConfig `json:"providers" mapstructure:"providers"`
	DefaultProvider string                    `json:"default_provider" mapstructure:"default_provider"`
	Agent           AgentConfig               `json:"agent" mapstructure:"agent"`
	Session         SessionConfig             `json:"session" mapstructure:"session"`
	Notify          NotifyConfig              `json:"notify" mapstructure:"notify"`
	Database        DatabaseConfig            `json:"database" mapstructure:"database"`
}

type ServerConfig struct {
	Host       string `json:"host" mapstructure:"host"`
	Port       int    `json:"port" mapstructure:"port"`
	AdminToken string `json:"admin_token" mapstructure:"admin_token"`
}

type TwilioConfig struct {
	AccountSID        string `json:"account_sid" mapstructure:"account_sid"`
	AuthToken         string `json:"auth_token" mapstructure:"auth_token"`
	PhoneNumber       string `json:"phone_number" mapstructure:"phone_number"`
	OperatorNumber    string `json:"operator_number" mapstructure:"operator_number"`
	ValidateSignature bool   `json:"validate_signature" mapstructure:"validate_signature"`
}

type ProviderConfig struct {
	Type         string `json:"type" mapstructure:"type"`
	Name         string `json:"name" mapstructure:"name"`
	BaseURL      string `json:"base_url,omitempty" mapstructure:"base_url"`
	APIKey       string `json:"api_key,omitempty" mapstructure:"api_key"`
	DefaultModel string `json:"default_model" mapstructure:"default_model"`
}

type AgentConfig struct {
	// SystemPrompt is the persona instruction sent with every completion.
	SystemPrompt string `json:"system_prompt" mapstructure:"system_prompt"`
	// BusinessKnowledge is free-form text interpolated into the persona
	// prompt so one binary serves differently branded deployments.
	BusinessKnowledge     string `json:"business_knowledge" mapstructure:"business_knowledge"`
	BusinessKnowledgePath string `json:"business_knowledge_path" mapstructure:"business_knowledge_path"`
	MaxTokens             int    `json:"max_tokens" mapstructure:"max_tokens"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
	ApologyReply          string `json:"apology_reply" mapstructure:"apology_reply"`
	NotConfiguredReply    string `json:"not_configured_reply" mapstructure:"not_configured_reply"`
}

type SessionConfig struct {
	EscalationThreshold int `json:"escalation_threshold" mapstructure:"escalation_threshold"`
	IdleTTLMinutes      int `json:"idle_ttl_minutes" mapstructure:"idle_ttl_minutes"`
}

type NotifyConfig struct {
	Email    EmailConfig    `json:"email" mapstructure:"email"`
	Sheets   SheetsConfig   `json:"sheets" mapstructure:"sheets"`
	Telegram TelegramConfig `json:"telegram" mapstructure:"telegram"`
}

type EmailConfig struct {
	To           string `json:"to" mapstructure:"to"`
	From         string `json:"from" mapstructure:"from"`
	ClientID     string `json:"client_id" mapstructure:"client_id"`
	ClientSecret string `json:"client_secret" mapstructure:"client_secret"`
	RefreshToken string `json:"refresh_token" mapstructure:"refresh_token"`
}

type SheetsConfig struct {
	SpreadsheetID   string `json:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	SheetRange      string `json:"sheet_range" mapstructure:"sheet_range"`
	CredentialsJSON string `json:"credentials_json" mapstructure:"credentials_json"`
}

type TelegramConfig struct {
	BotToken string `json:"bot_token" mapstructure:"bot_token"`
	ChatID   int64  `json:"chat_id" mapstructure:"chat_id"`
}

type DatabaseConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

const defaultSystemPrompt = "You are a professional phone assistant. " +
	"Keep answers brief and conversational. Be friendly and professional."

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".frontdesk"))
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file is fine; env vars carry the credentials.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)

	if cfg.Agent.BusinessKnowledge == "" && cfg.Agent.BusinessKnowledgePath != "" {
		if data, err := os.ReadFile(cfg.Agent.BusinessKnowledgePath); err == nil {
			cfg.Agent.BusinessKnowledge = string(data)
		}
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 10000)
	viper.SetDefault("twilio.validate_signature", true)
	viper.SetDefault("default_provider", "anthropic")
	viper.SetDefault("agent.system_prompt", defaultSystemPrompt)
	viper.SetDefault("agent.max_tokens", 300)
	viper.SetDefault("agent.request_timeout_seconds", 10)
	viper.SetDefault("agent.apology_reply", "I apologize, I am having trouble right now.")
	viper.SetDefault("agent.not_configured_reply", "I apologize, the AI system is not configured.")
	viper.SetDefault("session.escalation_threshold", 3)
	viper.SetDefault("session.idle_ttl_minutes", 30)
	viper.SetDefault("notify.sheets.sheet_range", "Escalations!A:E")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "frontdesk")
	viper.SetDefault("database.database", "frontdesk")
	viper.SetDefault("database.sslmode", "disable")
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}
	if token := os.Getenv("ADMIN_TOKEN"); token != "" {
		cfg.Server.AdminToken = token
	}

	if sid := os.Getenv("TWILIO_ACCOUNT_SID"); sid != "" {
		cfg.Twilio.AccountSID = sid
	}
	if token := os.Getenv("TWILIO_AUTH_TOKEN"); token != "" {
		cfg.Twilio.AuthToken = token
	}
	if num := os.Getenv("TWILIO_PHONE_NUMBER"); num != "" {
		cfg.Twilio.PhoneNumber = num
	}
	if num := os.Getenv("OPERATOR_PHONE_NUMBER"); num != "" {
		cfg.Twilio.OperatorNumber = num
	}

	if cfg.Providers == nil {
		cfg.Providers = map[string]ProviderConfig{}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		p := cfg.Providers["anthropic"]
		p.Type = "anthropic"
		if p.Name == "" {
			p.Name = "Anthropic"
		}
		p.APIKey = key
		cfg.Providers["anthropic"] = p
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		p := cfg.Providers["openai"]
		p.Type = "openai"
		if p.Name == "" {
			p.Name = "OpenAI"
		}
		p.APIKey = key
		cfg.Providers["openai"] = p
	}
	if provider := os.Getenv("DEFAULT_PROVIDER"); provider != "" {
		cfg.DefaultProvider = provider
	}

	if knowledge := os.Getenv("BUSINESS_KNOWLEDGE"); knowledge != "" {
		cfg.Agent.BusinessKnowledge = knowledge
	}
	if threshold := os.Getenv("ESCALATION_THRESHOLD"); threshold != "" {
		if n, err := strconv.Atoi(threshold); err == nil && n >= 1 {
			cfg.Session.EscalationThreshold = n
		}
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Notify.Telegram.BotToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			cfg.Notify.Telegram.ChatID = id
		}
	}
	if to := os.Getenv("NOTIFY_EMAIL_TO"); to != "" {
		cfg.Notify.Email.To = to
	}
	if from := os.Getenv("NOTIFY_EMAIL_FROM"); from != "" {
		cfg.Notify.Email.From = from
	}
	if id := os.Getenv("GMAIL_CLIENT_ID"); id != "" {
		cfg.Notify.Email.ClientID = id
	}
	if secret := os.Getenv("GMAIL_CLIENT_SECRET"); secret != "" {
		cfg.Notify.Email.ClientSecret = secret
	}
	if token := os.Getenv("GMAIL_REFRESH_TOKEN"); token != "" {
		cfg.Notify.Email.RefreshToken = token
	}
	if id := os.Getenv("SHEETS_SPREADSHEET_ID"); id != "" {
		cfg.Notify.Sheets.SpreadsheetID = id
	}
	if creds := os.Getenv("SHEETS_CREDENTIALS_JSON"); creds != "" {
		cfg.Notify.Sheets.CredentialsJSON = creds
	}

	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}
}

// TwilioConfigured reports whether outbound Twilio calls (SMS) can be made.
func (c *Config) TwilioConfigured() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.PhoneNumber != ""
}

// DatabaseConfigured reports whether the call-record store should be wired.
func (c *Config) DatabaseConfigured() bool {
	return c.Database.Host != ""
}
