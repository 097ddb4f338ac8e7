package offline

import (
	"fmt"
	"time"

	"github.com/ahoin001/Soma-sub005/internal/domain"
)

// Config holds the settings for an offline sync Client.
type Config struct {
	// DBPath is the location of the durable pending-mutation database.
	// Required unless a custom store is injected with WithStore.
	DBPath string

	// MaxRetries is the per-record retry ceiling before a mutation is
	// permanently skipped. Defaults to 3.
	MaxRetries int

	// OfflinePollInterval is how often queue depth is reported to the
	// observer while offline. Defaults to 5s.
	OfflinePollInterval time.Duration

	// ProbeURL is the endpoint used to detect connectivity. Required
	// unless a custom monitor is injected with WithMonitor.
	ProbeURL string

	// ProbeInterval is how often connectivity is probed. Defaults to 10s.
	ProbeInterval time.Duration

	// HTTPTimeout bounds each connectivity probe request. Defaults to 15s.
	HTTPTimeout time.Duration

	// BackoffInitial and BackoffMax shape the retry backoff applied when
	// a replay run fails at the store level.
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// SetDefaults fills zero fields with their default values.
func (c *Config) SetDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.OfflinePollInterval == 0 {
		c.OfflinePollInterval = 5 * time.Second
	}
	if c.ProbeInterval == 0 {
		c.ProbeInterval = 10 * time.Second
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 15 * time.Second
	}
	if c.BackoffInitial == 0 {
		c.BackoffInitial = 500 * time.Millisecond
	}
	if c.BackoffMax == 0 {
		c.BackoffMax = 10 * time.Second
	}
}

// validate checks the configuration against the injected options.
func (c *Config) validate(o options) error {
	if c.DBPath == "" && o.store == nil {
		return fmt.Errorf("%w: DBPath is required", domain.ErrInvalidConfig)
	}
	if c.ProbeURL == "" && o.monitor == nil {
		return fmt.Errorf("%w: ProbeURL is required", domain.ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: MaxRetries must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}
