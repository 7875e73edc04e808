package config

import (
	"slices"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Providers   ProvidersConfig   `yaml:"providers"`
	LLM         LLMConfig         `yaml:"llm"`
	Queue       QueueConfig       `yaml:"queue"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Sync        SyncConfig        `yaml:"sync"`
	Email       EmailConfig       `yaml:"email"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds request budgets. Requests/Window throttle the public
// Slack webhook per IP; QueryRequests/QueryWindow throttle LLM-backed queries
// per user.
type RateLimitConfig struct {
	Requests      int           `yaml:"requests"       env:"RATE_LIMIT_REQUESTS"       env-default:"120"`
	Window        time.Duration `yaml:"window"         env:"RATE_LIMIT_WINDOW"         env-default:"1m"`
	QueryRequests int           `yaml:"query_requests" env:"RATE_LIMIT_QUERY_REQUESTS" env-default:"30"`
	QueryWindow   time.Duration `yaml:"query_window"   env:"RATE_LIMIT_QUERY_WINDOW"   env-default:"1m"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
	FrontendURL     string        `yaml:"frontend_url"     env:"SERVER_FRONTEND_URL"     env-default:"http://localhost:3000"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer-token and extension session settings.
// Access tokens are issued by the identity provider with a shared HS256 secret.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"        env:"AUTH_JWT_SECRET"        env-required:"true"`
	JWTIssuer        string        `yaml:"jwt_issuer"        env:"AUTH_JWT_ISSUER"`
	JWTAudience      string        `yaml:"jwt_audience"      env:"AUTH_JWT_AUDIENCE"      env-default:"authenticated"`
	SessionTTL       time.Duration `yaml:"session_ttl"       env:"AUTH_SESSION_TTL"       env-default:"720h"`
	SessionRetention time.Duration `yaml:"session_retention" env:"AUTH_SESSION_RETENTION" env-default:"168h"`
	StateSigningKey  string        `yaml:"state_signing_key" env:"AUTH_STATE_SIGNING_KEY"`
}

// CredentialsConfig holds the integration credential cipher settings.
type CredentialsConfig struct {
	EncryptionKey string `yaml:"encryption_key" env:"CREDENTIALS_ENCRYPTION_KEY" env-required:"true"`
	Cipher        string `yaml:"cipher"         env:"CREDENTIALS_CIPHER"         env-default:"cbc"`
}

// OAuthClientConfig holds one provider's OAuth application.
type OAuthClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Configured reports whether client credentials are present.
func (c OAuthClientConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ProvidersConfig holds the OAuth applications for every integration type.
// Gmail and Calendar share the Google application but have distinct redirect URIs.
type ProvidersConfig struct {
	SlackClientID       string `yaml:"slack_client_id"       env:"SLACK_CLIENT_ID"`
	SlackClientSecret   string `yaml:"slack_client_secret"   env:"SLACK_CLIENT_SECRET"`
	SlackRedirectURI    string `yaml:"slack_redirect_uri"    env:"SLACK_REDIRECT_URI"`
	SlackSigningSecret  string `yaml:"slack_signing_secret"  env:"SLACK_SIGNING_SECRET"`
	NotionClientID      string `yaml:"notion_client_id"      env:"NOTION_CLIENT_ID"`
	NotionClientSecret  string `yaml:"notion_client_secret"  env:"NOTION_CLIENT_SECRET"`
	NotionRedirectURI   string `yaml:"notion_redirect_uri"   env:"NOTION_REDIRECT_URI"`
	GoogleClientID      string `yaml:"google_client_id"      env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string `yaml:"google_client_secret"  env:"GOOGLE_CLIENT_SECRET"`
	GmailRedirectURI    string `yaml:"gmail_redirect_uri"    env:"GMAIL_REDIRECT_URI"`
	CalendarRedirectURI string `yaml:"calendar_redirect_uri" env:"CALENDAR_REDIRECT_URI"`
	GitHubClientID      string `yaml:"github_client_id"      env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret  string `yaml:"github_client_secret"  env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURI   string `yaml:"github_redirect_uri"   env:"GITHUB_REDIRECT_URI"`
}

// Slack returns the Slack OAuth application.
func (p ProvidersConfig) Slack() OAuthClientConfig {
	return OAuthClientConfig{ClientID: p.SlackClientID, ClientSecret: p.SlackClientSecret, RedirectURI: p.SlackRedirectURI}
}

// Notion returns the Notion OAuth application.
func (p ProvidersConfig) Notion() OAuthClientConfig {
	return OAuthClientConfig{ClientID: p.NotionClientID, ClientSecret: p.NotionClientSecret, RedirectURI: p.NotionRedirectURI}
}

// Gmail returns the Google OAuth application with the Gmail redirect.
func (p ProvidersConfig) Gmail() OAuthClientConfig {
	return OAuthClientConfig{ClientID: p.GoogleClientID, ClientSecret: p.GoogleClientSecret, RedirectURI: p.GmailRedirectURI}
}

// Calendar returns the Google OAuth application with the Calendar redirect.
func (p ProvidersConfig) Calendar() OAuthClientConfig {
	return OAuthClientConfig{ClientID: p.GoogleClientID, ClientSecret: p.GoogleClientSecret, RedirectURI: p.CalendarRedirectURI}
}

// GitHub returns the GitHub OAuth application.
func (p ProvidersConfig) GitHub() OAuthClientConfig {
	return OAuthClientConfig{ClientID: p.GitHubClientID, ClientSecret: p.GitHubClientSecret, RedirectURI: p.GitHubRedirectURI}
}

// Enabled returns the list of configured integration types.
// A provider is considered configured if ALL its required credentials are present.
func (p ProvidersConfig) Enabled() []string {
	var out []string
	if p.Slack().Configured() {
		out = append(out, "slack")
	}
	if p.Notion().Configured() {
		out = append(out, "notion")
	}
	if p.Gmail().Configured() {
		out = append(out, "gmail")
	}
	if p.GitHub().Configured() {
		out = append(out, "github")
	}
	if p.Calendar().Configured() {
		out = append(out, "calendar")
	}
	return out
}

// IsEnabled checks if the given integration type is configured.
func (p ProvidersConfig) IsEnabled(provider string) bool {
	return slices.Contains(p.Enabled(), provider)
}

// LLMConfig holds the completion and embedding backends.
type LLMConfig struct {
	Provider          string        `yaml:"provider"           env:"LLM_PROVIDER"           env-default:"openai"`
	Model             string        `yaml:"model"              env:"LLM_MODEL"              env-default:"gpt-4o-mini"`
	APIKey            string        `yaml:"api_key"            env:"LLM_API_KEY"`
	BaseURL           string        `yaml:"base_url"           env:"LLM_BASE_URL"`
	EmbeddingProvider string        `yaml:"embedding_provider" env:"LLM_EMBEDDING_PROVIDER" env-default:"openai"`
	EmbeddingModel    string        `yaml:"embedding_model"    env:"LLM_EMBEDDING_MODEL"    env-default:"text-embedding-3-small"`
	EmbeddingAPIKey   string        `yaml:"embedding_api_key"  env:"LLM_EMBEDDING_API_KEY"`
	Temperature       float64       `yaml:"temperature"        env:"LLM_TEMPERATURE"        env-default:"0.3"`
	MaxTokens         int           `yaml:"max_tokens"         env:"LLM_MAX_TOKENS"         env-default:"500"`
	Timeout           time.Duration `yaml:"timeout"            env:"LLM_TIMEOUT"            env-default:"60s"`
}

// QueuePolicy configures one job queue.
type QueuePolicy struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	Backoff      time.Duration `yaml:"backoff"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	Concurrency  int           `yaml:"concurrency"`
}

// QueueConfig holds the job broker settings.
type QueueConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"QUEUE_POLL_INTERVAL" env-default:"1s"`
	Retention    time.Duration `yaml:"retention"     env:"QUEUE_RETENTION"     env-default:"168h"`
	// StaleAfter bounds how long one attempt may run. Running jobs not
	// touched for longer are treated as orphaned and returned to pending.
	StaleAfter time.Duration `yaml:"stale_after" env:"QUEUE_STALE_AFTER" env-default:"15m"`
	Sync         QueuePolicy   `yaml:"sync"`
	Email        QueuePolicy   `yaml:"email"`
	Meeting      QueuePolicy   `yaml:"meeting"`
}

// SchedulerConfig holds the recurring sync schedule.
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"   env:"SCHEDULER_ENABLED"   env-default:"true"`
	SyncCron string `yaml:"sync_cron" env:"SCHEDULER_SYNC_CRON" env-default:"0 2 * * *"`
	Timezone string `yaml:"timezone"  env:"SCHEDULER_TIMEZONE"  env-default:"UTC"`
}

// SyncConfig holds provider paging limits.
type SyncConfig struct {
	PageSize      int           `yaml:"page_size"      env:"SYNC_PAGE_SIZE"      env-default:"50"`
	MaxPages      int           `yaml:"max_pages"      env:"SYNC_MAX_PAGES"      env-default:"10"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"   env:"SYNC_HTTP_TIMEOUT"   env-default:"20s"`
	GmailKeywords string        `yaml:"gmail_keywords" env:"SYNC_GMAIL_KEYWORDS" env-default:"decision,decided,action item,meeting,agreed,approved"`
}

// GmailKeywordList splits GmailKeywords on commas.
func (s SyncConfig) GmailKeywordList() []string {
	var out []string
	for _, k := range strings.Split(s.GmailKeywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, strings.ToLower(k))
		}
	}
	return out
}

// EmailConfig holds SMTP delivery settings. An empty host disables delivery.
type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"     env:"EMAIL_SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port"     env:"EMAIL_SMTP_PORT"     env-default:"587"`
	SMTPUsername string `yaml:"smtp_username" env:"EMAIL_SMTP_USERNAME"`
	SMTPPassword string `yaml:"smtp_password" env:"EMAIL_SMTP_PASSWORD"`
	From         string `yaml:"from"          env:"EMAIL_FROM"          env-default:"FlipFlop <noreply@flipflop.app>"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	// File, when set, additionally writes JSON records to this path.
	File string `yaml:"file" env:"LOG_FILE"`
}
