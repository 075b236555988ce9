// fileconfig.go: Loading Config from YAML or JSONC files
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	goerrors "github.com/agilira/go-errors"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Durations are strings in
// time.ParseDuration syntax ("500ms", "2s").
//
// String values may reference environment variables as ${VAR} or
// ${VAR:-default}, which keeps credentials out of the file:
//
//	endpoint: https://logs.example.com/loki/api/v1/push
//	username: "${LOKI_USER}"
//	api_key: "${LOKI_API_KEY}"
//	service: pump-controller
//	device: "${HOSTNAME:-unknown}"
//	retry_delay: 2s
type FileConfig struct {
	Endpoint       string            `yaml:"endpoint" json:"endpoint"`
	Username       string            `yaml:"username" json:"username"`
	APIKey         string            `yaml:"api_key" json:"api_key"`
	Service        string            `yaml:"service" json:"service"`
	Device         string            `yaml:"device" json:"device"`
	TenantID       string            `yaml:"tenant_id" json:"tenant_id"`
	Labels         map[string]string `yaml:"labels" json:"labels"`
	BufferCapacity int               `yaml:"buffer_capacity" json:"buffer_capacity"`
	MaxRetries     int               `yaml:"max_retries" json:"max_retries"`
	RetryDelay     string            `yaml:"retry_delay" json:"retry_delay"`
	Backoff        string            `yaml:"backoff" json:"backoff"`
	Timeout        string            `yaml:"timeout" json:"timeout"`
	FlushInterval  string            `yaml:"flush_interval" json:"flush_interval"`
	ImmediateFlush bool              `yaml:"immediate_flush" json:"immediate_flush"`
}

// LoadConfigFile reads a configuration file. Files ending in .json or
// .jsonc are parsed as JSON with comments; everything else as YAML.
func LoadConfigFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, goerrors.Wrap(err, ErrCodeConfig, "failed to read config file").
			WithContext("path", path)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes data in the format named by ext (".yaml", ".yml",
// ".json" or ".jsonc") and expands environment references.
func ParseConfig(data []byte, ext string) (FileConfig, error) {
	var fc FileConfig
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &fc); err != nil {
			return FileConfig{}, goerrors.Wrap(err, ErrCodeConfig, "failed to parse JSON config")
		}
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return FileConfig{}, goerrors.Wrap(err, ErrCodeConfig, "failed to parse YAML config")
		}
	}
	fc.expand()
	return fc, nil
}

func (fc *FileConfig) expand() {
	fc.Endpoint = expandEnv(fc.Endpoint)
	fc.Username = expandEnv(fc.Username)
	fc.APIKey = expandEnv(fc.APIKey)
	fc.Service = expandEnv(fc.Service)
	fc.Device = expandEnv(fc.Device)
	fc.TenantID = expandEnv(fc.TenantID)
	for k, v := range fc.Labels {
		fc.Labels[k] = expandEnv(v)
	}
}

// Config converts the file settings into a Config. Durations that do not
// parse are reported with ErrCodeConfig.
func (fc FileConfig) Config() (Config, error) {
	cfg := Config{
		Endpoint:       fc.Endpoint,
		Username:       fc.Username,
		APIKey:         fc.APIKey,
		ServiceName:    fc.Service,
		DeviceLabel:    fc.Device,
		TenantID:       fc.TenantID,
		Labels:         fc.Labels,
		BufferCapacity: fc.BufferCapacity,
		MaxRetries:     fc.MaxRetries,
		ImmediateFlush: fc.ImmediateFlush,
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"retry_delay", fc.RetryDelay, &cfg.RetryDelay},
		{"timeout", fc.Timeout, &cfg.Timeout},
		{"flush_interval", fc.FlushInterval, &cfg.FlushInterval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return Config{}, goerrors.Wrap(err, ErrCodeConfig, "invalid duration for "+d.name)
		}
		*d.dst = parsed
	}

	switch strings.ToLower(fc.Backoff) {
	case "", "fixed":
	case "exponential":
		cfg.Backoff = ExponentialBackoff
	default:
		return Config{}, goerrors.New(ErrCodeConfig, "unknown backoff "+fc.Backoff)
	}
	return cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnv replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
