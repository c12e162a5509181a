package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobintake/internal/taxonomy"
)

// DefaultPath is used when neither --config nor INTAKE_CONFIG is set.
const DefaultPath = "config.yaml"

// PathEnv names the environment variable consulted for the config path.
const PathEnv = "INTAKE_CONFIG"

// Config is the root configuration for the intake service.
type Config struct {
	Tenant          string
	Location        *time.Location
	StorePath       string
	PollingInterval time.Duration
	PollMinDelay    time.Duration // gap between inboxes of the same type within a cycle
	Inboxes         []InboxConfig
	AI              AIConfig
	Schedule        ScheduleConfig
	Taxonomy        TaxonomyConfig
	Notification    NotificationConfig
}

// InboxConfig describes a single message inbox to poll.
type InboxConfig struct {
	Name        string
	Type        string // "dir" or "feed"
	Dir         string
	URL         string
	Token       string
	Tenant      string // overrides Config.Tenant for records from this inbox
	Enabled     bool
	MaxAge      time.Duration
	SkipBacklog bool
	Retention   time.Duration
}

// AIConfig controls the LLM extraction layer.
type AIConfig struct {
	Enabled    bool
	Provider   string // "openai" or "anthropic"
	BaseURL    string // empty means the provider default
	Model      string
	APIKey     string // expanded from env var by Load
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	MinDelay   time.Duration // minimum gap between provider calls
}

// ScheduleConfig tunes schedule resolution.
type ScheduleConfig struct {
	DefaultHour int
	KeySlips    map[byte]string
}

// TaxonomyConfig extends the built-in tables.
type TaxonomyConfig struct {
	Categories    []taxonomy.Category
	Abbreviations map[string]string
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Tenant          string             `yaml:"tenant"`
	Timezone        string             `yaml:"timezone"`
	StorePath       string             `yaml:"store_path"`
	PollingInterval string             `yaml:"polling_interval"`
	PollMinDelay    string             `yaml:"poll_min_delay"`
	Inboxes         []rawInboxConfig   `yaml:"inboxes"`
	AI              rawAIConfig        `yaml:"ai"`
	Schedule        rawScheduleConfig  `yaml:"schedule"`
	Taxonomy        rawTaxonomyConfig  `yaml:"taxonomy"`
	Notification    NotificationConfig `yaml:"notification"`
}

type rawInboxConfig struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Dir         string `yaml:"dir"`
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	Tenant      string `yaml:"tenant"`
	Enabled     bool   `yaml:"enabled"`
	MaxAge      string `yaml:"max_age"`
	SkipBacklog bool   `yaml:"skip_backlog"`
	Retention   string `yaml:"retention"`
}

type rawAIConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MaxRetries *int   `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
	MinDelay   string `yaml:"min_delay"`
}

type rawScheduleConfig struct {
	DefaultHour *int              `yaml:"default_hour"`
	KeySlips    map[string]string `yaml:"key_slips"`
}

type rawCategory struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

type rawTaxonomyConfig struct {
	Categories    []rawCategory     `yaml:"categories"`
	Abbreviations map[string]string `yaml:"abbreviations"`
}

var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
}

// ResolvePath picks the config file: the flag value, then $INTAKE_CONFIG,
// then ./config.yaml.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(PathEnv); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// A .env file in the working directory, if present, is loaded first so its
// variables can be referenced from the YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, expanding environment variables.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval, err := parseDuration("polling_interval", raw.PollingInterval, 5*time.Minute)
	if err != nil {
		return nil, err
	}

	pollMinDelay, err := parseDuration("poll_min_delay", raw.PollMinDelay, 0)
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if raw.Timezone != "" {
		if loc, err = time.LoadLocation(raw.Timezone); err != nil {
			return nil, fmt.Errorf("parse timezone %q: %w", raw.Timezone, err)
		}
	}

	tenant := raw.Tenant
	if tenant == "" {
		tenant = "default"
	}
	storePath := raw.StorePath
	if storePath == "" {
		storePath = "intake.db"
	}

	inboxes := make([]InboxConfig, 0, len(raw.Inboxes))
	for i, ri := range raw.Inboxes {
		ic, err := parseInbox(i, ri, tenant)
		if err != nil {
			return nil, err
		}
		inboxes = append(inboxes, ic)
	}

	ai, err := parseAI(raw.AI)
	if err != nil {
		return nil, err
	}

	sched, err := parseSchedule(raw.Schedule)
	if err != nil {
		return nil, err
	}

	extra := make([]taxonomy.Category, 0, len(raw.Taxonomy.Categories))
	for _, c := range raw.Taxonomy.Categories {
		extra = append(extra, taxonomy.Category{Label: c.Label, Keywords: c.Keywords})
	}

	cfg := &Config{
		Tenant:          tenant,
		Location:        loc,
		StorePath:       storePath,
		PollingInterval: interval,
		PollMinDelay:    pollMinDelay,
		Inboxes:         inboxes,
		AI:              ai,
		Schedule:        sched,
		Taxonomy: TaxonomyConfig{
			Categories:    extra,
			Abbreviations: raw.Taxonomy.Abbreviations,
		},
		Notification: raw.Notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseInbox(i int, ri rawInboxConfig, tenant string) (InboxConfig, error) {
	field := fmt.Sprintf("inboxes[%d]", i)

	maxAge, err := parseDuration(field+".max_age", ri.MaxAge, 0)
	if err != nil {
		return InboxConfig{}, err
	}
	retention, err := parseDuration(field+".retention", ri.Retention, 30*24*time.Hour)
	if err != nil {
		return InboxConfig{}, err
	}

	kind := strings.ToLower(ri.Type)
	if kind == "" {
		kind = "dir"
	}
	if ri.Tenant != "" {
		tenant = ri.Tenant
	}

	return InboxConfig{
		Name:        ri.Name,
		Type:        kind,
		Dir:         ri.Dir,
		URL:         ri.URL,
		Token:       ri.Token,
		Tenant:      tenant,
		Enabled:     ri.Enabled,
		MaxAge:      maxAge,
		SkipBacklog: ri.SkipBacklog,
		Retention:   retention,
	}, nil
}

func parseAI(raw rawAIConfig) (AIConfig, error) {
	timeout, err := parseDuration("ai.timeout", raw.Timeout, 30*time.Second)
	if err != nil {
		return AIConfig{}, err
	}
	retryDelay, err := parseDuration("ai.retry_delay", raw.RetryDelay, time.Second)
	if err != nil {
		return AIConfig{}, err
	}
	minDelay, err := parseDuration("ai.min_delay", raw.MinDelay, 0)
	if err != nil {
		return AIConfig{}, err
	}

	provider := strings.ToLower(raw.Provider)
	if provider == "" {
		provider = "openai"
	}
	model := raw.Model
	if model == "" {
		model = defaultModels[provider]
	}
	maxRetries := 2
	if raw.MaxRetries != nil {
		maxRetries = *raw.MaxRetries
	}

	return AIConfig{
		Enabled:    raw.Enabled,
		Provider:   provider,
		BaseURL:    raw.BaseURL,
		Model:      model,
		APIKey:     raw.APIKey,
		Timeout:    timeout,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		MinDelay:   minDelay,
	}, nil
}

func parseSchedule(raw rawScheduleConfig) (ScheduleConfig, error) {
	hour := 9
	if raw.DefaultHour != nil {
		hour = *raw.DefaultHour
	}

	var slips map[byte]string
	if len(raw.KeySlips) > 0 {
		slips = make(map[byte]string, len(raw.KeySlips))
		for k, v := range raw.KeySlips {
			k = strings.ToLower(k)
			if len(k) != 1 || v == "" {
				return ScheduleConfig{}, fmt.Errorf("schedule.key_slips: key %q must be a single character with a non-empty value", k)
			}
			slips[k[0]] = strings.ToLower(v)
		}
	}

	return ScheduleConfig{DefaultHour: hour, KeySlips: slips}, nil
}

func parseDuration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.PollMinDelay < 0 {
		return fmt.Errorf("poll_min_delay must not be negative, got %v", cfg.PollMinDelay)
	}

	names := make(map[string]bool, len(cfg.Inboxes))
	for i, in := range cfg.Inboxes {
		if in.Name == "" {
			return fmt.Errorf("inboxes[%d].name is required", i)
		}
		if names[in.Name] {
			return fmt.Errorf("duplicate inbox name %q", in.Name)
		}
		names[in.Name] = true

		switch in.Type {
		case "dir":
			if in.Dir == "" {
				return fmt.Errorf("inbox %q: dir is required when type is \"dir\"", in.Name)
			}
		case "feed":
			if !strings.HasPrefix(in.URL, "http://") && !strings.HasPrefix(in.URL, "https://") {
				return fmt.Errorf("inbox %q: url must be http(s) when type is \"feed\"", in.Name)
			}
		default:
			return fmt.Errorf("inbox %q: unknown type %q (want dir or feed)", in.Name, in.Type)
		}
		if in.MaxAge < 0 || in.Retention < 0 {
			return fmt.Errorf("inbox %q: max_age and retention must not be negative", in.Name)
		}
	}

	if _, ok := defaultModels[cfg.AI.Provider]; !ok {
		return fmt.Errorf("ai.provider must be \"openai\" or \"anthropic\", got %q", cfg.AI.Provider)
	}
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must not be negative, got %d", cfg.AI.MaxRetries)
	}

	if cfg.Schedule.DefaultHour < 0 || cfg.Schedule.DefaultHour > 23 {
		return fmt.Errorf("schedule.default_hour must be between 0 and 23, got %d", cfg.Schedule.DefaultHour)
	}

	for _, c := range cfg.Taxonomy.Categories {
		if c.Label == "" || len(c.Keywords) == 0 {
			return fmt.Errorf("taxonomy.categories: each entry needs a label and keywords")
		}
	}

	switch cfg.Notification.Type {
	case "", "log":
	case "slack":
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}

// EnabledInboxes returns the inboxes with enabled set, in config order.
func (c *Config) EnabledInboxes() []InboxConfig {
	var out []InboxConfig
	for _, in := range c.Inboxes {
		if in.Enabled {
			out = append(out, in)
		}
	}
	return out
}
