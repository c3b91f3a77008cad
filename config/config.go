package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"hark/results"
)

// Config is the complete client configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Audio   AudioConfig   `yaml:"audio"`
	History HistoryConfig `yaml:"history"`
	Session SessionConfig `yaml:"session"`
	Metrics MetricsConfig `yaml:"metrics"`
	UI      UIConfig      `yaml:"ui"`
}

// ServerConfig selects the transport and the backend endpoints.
type ServerConfig struct {
	Transport        string        `yaml:"transport"`     // ws or rtc
	WSURL            string        `yaml:"ws_url"`        // message channel, side channel for rtc
	SignalingURL     string        `yaml:"signaling_url"` // base URL, /offer is appended
	STUNServers      []string      `yaml:"stun_servers"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	RestartDelay     time.Duration `yaml:"restart_delay"`
	QueueSize        int           `yaml:"queue_size"` // outbound frames
}

type AudioConfig struct {
	Device      string        `yaml:"device"`       // ID or name; empty = ask
	QueueFrames int           `yaml:"queue_frames"` // between audio thread and sender
	LostTimeout time.Duration `yaml:"lost_timeout"`
}

type HistoryConfig struct {
	Size  int    `yaml:"size"`
	Order string `yaml:"order"` // prepend (newest first) or append
}

type SessionConfig struct {
	TargetLanguage string `yaml:"target_language"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

type UIConfig struct {
	Beep           bool   `yaml:"beep"`
	Hotkey         string `yaml:"hotkey"` // empty disables the global hotkey
	NoVoiceWarning bool   `yaml:"no_voice_warning"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Transport:        "ws",
			WSURL:            "ws://localhost:8000/ws",
			SignalingURL:     "http://localhost:8000",
			STUNServers:      []string{"stun:stun.l.google.com:19302", "stun:stun1.l.google.com:19302"},
			HandshakeTimeout: 10 * time.Second,
			RestartDelay:     2 * time.Second,
			QueueSize:        32,
		},
		Audio: AudioConfig{
			QueueFrames: 8,
			LostTimeout: 2 * time.Second,
		},
		History: HistoryConfig{
			Size:  results.DefaultSize,
			Order: "prepend",
		},
		UI: UIConfig{
			Beep:           true,
			NoVoiceWarning: true,
		},
	}
}

// DefaultPath is ~/.config/hark/config.yaml (or the OS equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hark", "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history config: %w", err)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	switch s.Transport {
	case "ws", "rtc":
	default:
		return fmt.Errorf("transport must be ws or rtc, got %q", s.Transport)
	}

	if err := checkURL(s.WSURL, "ws", "wss"); err != nil {
		return fmt.Errorf("ws_url: %w", err)
	}
	if s.Transport == "rtc" {
		if err := checkURL(s.SignalingURL, "http", "https"); err != nil {
			return fmt.Errorf("signaling_url: %w", err)
		}
		if len(s.STUNServers) == 0 {
			return fmt.Errorf("stun_servers cannot be empty for the rtc transport")
		}
	}

	if s.HandshakeTimeout <= 0 {
		return fmt.Errorf("handshake_timeout must be positive, got %s", s.HandshakeTimeout)
	}
	if s.RestartDelay <= 0 {
		return fmt.Errorf("restart_delay must be positive, got %s", s.RestartDelay)
	}
	if s.QueueSize < 1 {
		return fmt.Errorf("queue_size must be at least 1, got %d", s.QueueSize)
	}
	return nil
}

func (a *AudioConfig) Validate() error {
	if a.QueueFrames < 1 {
		return fmt.Errorf("queue_frames must be at least 1, got %d", a.QueueFrames)
	}
	if a.LostTimeout < 0 {
		return fmt.Errorf("lost_timeout cannot be negative, got %s", a.LostTimeout)
	}
	return nil
}

func (h *HistoryConfig) Validate() error {
	if h.Size < 1 {
		return fmt.Errorf("size must be at least 1, got %d", h.Size)
	}
	if _, err := results.ParseOrder(h.Order); err != nil {
		return err
	}
	return nil
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return fmt.Errorf("%q has no host", raw)
			}
			return nil
		}
	}
	return fmt.Errorf("%q: scheme must be one of %v", raw, schemes)
}
