package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Sandbox   SandboxConfig   `yaml:"sandbox"`
	Ntfy      NtfyConfig      `yaml:"ntfy"`
	Search    SearchConfig    `yaml:"search"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SandboxConfig configures the remote code execution client. Durations are
// whole seconds.
type SandboxConfig struct {
	URL               string `yaml:"url"`
	APITimeout        int    `yaml:"api_timeout"`         // added to compile+run timeout (default: 10)
	MaxRetries        int    `yaml:"max_retries"`         // total attempts (default: 3)
	InitialRetryDelay int    `yaml:"initial_retry_delay"` // linear backoff step (default: 1)
}

func (s SandboxConfig) APITimeoutDuration() time.Duration {
	return time.Duration(s.APITimeout) * time.Second
}

func (s SandboxConfig) InitialRetryDelayDuration() time.Duration {
	return time.Duration(s.InitialRetryDelay) * time.Second
}

// NtfyConfig holds the relay address and channel names.
type NtfyConfig struct {
	BaseURL            string `yaml:"base_url"`
	Timeout            int    `yaml:"timeout"`
	CommandsChannel    string `yaml:"commands_channel"`
	SyncChannel        string `yaml:"sync_channel"`
	TasksChannelPrefix string `yaml:"tasks_channel_prefix"`
	EmergenciesChannel string `yaml:"emergencies_channel"`
	PrivateChannel     string `yaml:"private_channel"`
	UserChannel        string `yaml:"user_channel"`
	FlagChannel        string `yaml:"flag_channel"`
}

func (n NtfyConfig) TimeoutDuration() time.Duration {
	return time.Duration(n.Timeout) * time.Second
}

// SearchConfig holds search backend settings.
type SearchConfig struct {
	SerpAPIKey    string `yaml:"serp_api_key"`
	SerpAPIURL    string `yaml:"serp_api_url"`
	DuckDuckGoURL string `yaml:"duckduckgo_url"`
}

// HeartbeatConfig enables a periodic idle status post. An empty Schedule
// disables it.
type HeartbeatConfig struct {
	Schedule string `yaml:"schedule"` // cron expression, 5 or 6 fields
	AgentID  string `yaml:"agent_id"`
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Sandbox: SandboxConfig{
			URL:               "http://localhost:8080/run_code",
			APITimeout:        10,
			MaxRetries:        3,
			InitialRetryDelay: 1,
		},
		Ntfy: NtfyConfig{
			BaseURL:            "https://ntfy.sh",
			Timeout:            10,
			CommandsChannel:    "agent_commands",
			SyncChannel:        "agent_sync",
			TasksChannelPrefix: "agent_",
			EmergenciesChannel: "agent_emergencies",
			PrivateChannel:     "my_private_thoughts",
			UserChannel:        "user_notifications",
			FlagChannel:        "llm_flag_user",
		},
		Search: SearchConfig{
			SerpAPIURL:    "https://serpapi.com/search",
			DuckDuckGoURL: "https://duckduckgo.com/html",
		},
		Heartbeat: HeartbeatConfig{
			AgentID: "toolbox",
		},
	}
}

// Load reads a YAML configuration file at path and returns a Config.
// Environment variables override values from the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads ".env" into the process environment, then reads
// "config.yaml" from the current directory. Missing files fall back to
// defaults; any other error (e.g. permission denied, malformed YAML) is
// returned.
func LoadDefault() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := Load("config.yaml")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = defaults()
		if err := applyEnv(cfg, os.LookupEnv); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

// applyEnv overlays the recognized environment variables onto cfg.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		"SANDBOX_URL":               &cfg.Sandbox.URL,
		"NTFY_BASE_URL":             &cfg.Ntfy.BaseURL,
		"NTFY_COMMANDS_CHANNEL":     &cfg.Ntfy.CommandsChannel,
		"NTFY_SYNC_CHANNEL":         &cfg.Ntfy.SyncChannel,
		"NTFY_TASKS_CHANNEL_PREFIX": &cfg.Ntfy.TasksChannelPrefix,
		"NTFY_EMERGENCIES_CHANNEL":  &cfg.Ntfy.EmergenciesChannel,
		"SERP_API_KEY":              &cfg.Search.SerpAPIKey,
		"HEARTBEAT_SCHEDULE":        &cfg.Heartbeat.Schedule,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"API_TIMEOUT":         &cfg.Sandbox.APITimeout,
		"MAX_RETRIES":         &cfg.Sandbox.MaxRetries,
		"INITIAL_RETRY_DELAY": &cfg.Sandbox.InitialRetryDelay,
		"NTFY_TIMEOUT":        &cfg.Ntfy.Timeout,
		"PORT":                &cfg.Server.Port,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}
