package config

import (
	"fmt"
	"slices"
	"time"
)

var (
	knownCiphers      = []string{"cbc", "gcm"}
	knownLLMProviders = []string{"openai", "ollama", "anthropic"}
	knownEmbedders    = []string{"openai", "ollama"}
)

// Default queue policies, applied to any field left at zero.
var (
	DefaultSyncPolicy    = QueuePolicy{MaxAttempts: 2, Backoff: 2 * time.Second, InitialDelay: 5 * time.Second, Concurrency: 3}
	DefaultEmailPolicy   = QueuePolicy{MaxAttempts: 3, Backoff: 2 * time.Second, Concurrency: 2}
	DefaultMeetingPolicy = QueuePolicy{MaxAttempts: 1, Concurrency: 2}

	DefaultStaleAfter = 15 * time.Minute
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if len(c.Credentials.EncryptionKey) < 32 {
		return fmt.Errorf("credentials.encryption_key must be at least 32 characters (got %d)", len(c.Credentials.EncryptionKey))
	}
	if !slices.Contains(knownCiphers, c.Credentials.Cipher) {
		return fmt.Errorf("credentials.cipher must be one of %v (got %q)", knownCiphers, c.Credentials.Cipher)
	}

	if !slices.Contains(knownLLMProviders, c.LLM.Provider) {
		return fmt.Errorf("llm.provider must be one of %v (got %q)", knownLLMProviders, c.LLM.Provider)
	}
	if !slices.Contains(knownEmbedders, c.LLM.EmbeddingProvider) {
		return fmt.Errorf("llm.embedding_provider must be one of %v (got %q)", knownEmbedders, c.LLM.EmbeddingProvider)
	}

	if c.Sync.PageSize <= 0 || c.Sync.PageSize > 100 {
		return fmt.Errorf("sync.page_size must be in 1..100 (got %d)", c.Sync.PageSize)
	}
	if c.Sync.MaxPages <= 0 {
		return fmt.Errorf("sync.max_pages must be > 0 (got %d)", c.Sync.MaxPages)
	}

	if err := c.Queue.validate(); err != nil {
		return fmt.Errorf("queue: %w", err)
	}

	if c.Scheduler.Enabled && c.Scheduler.SyncCron == "" {
		return fmt.Errorf("scheduler.sync_cron is required when the scheduler is enabled")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone: %w", err)
	}

	return nil
}

func (q *QueueConfig) validate() error {
	if q.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0 (got %v)", q.PollInterval)
	}
	if q.StaleAfter < 0 {
		return fmt.Errorf("stale_after must be >= 0 (got %v)", q.StaleAfter)
	}
	if q.StaleAfter == 0 {
		q.StaleAfter = DefaultStaleAfter
	}
	q.Sync = q.Sync.withDefaults(DefaultSyncPolicy)
	q.Email = q.Email.withDefaults(DefaultEmailPolicy)
	q.Meeting = q.Meeting.withDefaults(DefaultMeetingPolicy)

	for name, p := range map[string]QueuePolicy{"sync": q.Sync, "email": q.Email, "meeting": q.Meeting} {
		if p.Backoff < 0 || p.InitialDelay < 0 {
			return fmt.Errorf("%s: backoff and initial_delay must be >= 0", name)
		}
	}
	return nil
}

func (p QueuePolicy) withDefaults(d QueuePolicy) QueuePolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.Backoff == 0 {
		p.Backoff = d.Backoff
	}
	if p.InitialDelay == 0 {
		p.InitialDelay = d.InitialDelay
	}
	if p.Concurrency <= 0 {
		p.Concurrency = d.Concurrency
	}
	return p
}
