package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/penwyp/confit/internal/errors"
	"gopkg.in/yaml.v3"
)

// Format represents the configuration file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// EndpointEnvVar 覆盖解析出的端点，主要服务于 e2e 测试与临时调试。
const EndpointEnvVar = "CONFIT_ENDPOINT"

// fileManager supports both JSON and YAML configuration files
type fileManager struct {
	configPath string
	format     Format
	mu         sync.Mutex
}

// NewManager creates a config manager that supports both JSON and YAML
func NewManager(configPath string) (Manager, error) {
	if configPath == "" {
		return nil, errors.New(errors.ErrTypeConfig, "config path cannot be empty")
	}

	// Determine format based on extension
	ext := strings.ToLower(filepath.Ext(configPath))
	var format Format
	switch ext {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		// Default to YAML for new files
		format = FormatYAML
	}

	return &fileManager{
		configPath: configPath,
		format:     format,
	}, nil
}

// Load loads the configuration file in either JSON or YAML format
func (m *fileManager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err // Return the raw error for IsNotExist checks
		}
		return nil, errors.Wrap(errors.ErrTypeConfig, "failed to read config file", err)
	}

	var config Config

	// Try to unmarshal based on format
	switch m.format {
	case FormatJSON:
		if err := json.Unmarshal(data, &config); err != nil {
			// Try YAML as fallback
			if yamlErr := yaml.Unmarshal(data, &config); yamlErr == nil {
				return &config, nil
			}
			return nil, errors.Wrap(errors.ErrTypeConfig, "failed to parse config as JSON", err).
				WithSuggestion("Check the format of " + m.configPath)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			// Try JSON as fallback
			if jsonErr := json.Unmarshal(data, &config); jsonErr == nil {
				return &config, nil
			}
			return nil, errors.Wrap(errors.ErrTypeConfig, "failed to parse config as YAML", err).
				WithSuggestion("Check the format of " + m.configPath)
		}
	}

	return &config, nil
}

// Save saves the configuration file in the appropriate format
func (m *fileManager) Save(config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var data []byte
	var err error

	// Marshal based on format
	switch m.format {
	case FormatJSON:
		data, err = json.MarshalIndent(config, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(config)
	default:
		return errors.New(errors.ErrTypeConfig, fmt.Sprintf("unknown format: %s", m.format))
	}

	if err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to marshal config", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to create config directory", err)
	}

	// Atomic write: write to temp file then rename
	tmpFile := m.configPath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to write temp config file", err)
	}

	// Atomic rename
	if err := os.Rename(tmpFile, m.configPath); err != nil {
		// Clean up temp file
		os.Remove(tmpFile)
		return errors.Wrap(errors.ErrTypeConfig, "failed to save config file", err)
	}

	return nil
}

// CreateDefaultConfig 创建默认配置文件
func (m *fileManager) CreateDefaultConfig() error {
	return m.Save(Default())
}

// DefaultConfigPath 返回默认配置文件路径（~/.config/confit/config.yaml）。
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrTypeConfig, "cannot determine home directory", err)
	}
	return filepath.Join(home, ".config", "confit", "config.yaml"), nil
}

// Default 返回内置默认配置。
func Default() *Config {
	return &Config{
		Version:            "1.0.0",
		DefaultEnvironment: "production",
		Environments: map[string]Environment{
			"production": {Endpoint: "https://config.penwyp.dev"},
			"staging":    {Endpoint: "https://config-staging.penwyp.dev"},
		},
	}
}

// LoadOrDefault 加载配置文件；文件缺失时回退到内置默认配置。
// configPath 为空时使用 DefaultConfigPath。
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return Default(), nil
		}
		configPath = p
	}

	mgr, err := NewManager(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := mgr.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve 解析会话目标环境与端点。
// 优先级：CONFIT_ENDPOINT 环境变量 > 配置文件 > 内置默认。
func (c *Config) Resolve(requested string) (string, string, error) {
	name := requested
	if name == "" {
		name = c.DefaultEnvironment
	}
	if name == "" {
		name = "production"
	}

	env, ok := c.Environments[name]
	if !ok {
		return "", "", errors.New(errors.ErrTypeConfig, fmt.Sprintf("unknown environment %q", name)).
			WithSuggestion("Configured environments: " + strings.Join(c.EnvironmentNames(), ", "))
	}

	endpoint := env.Endpoint
	if override := os.Getenv(EndpointEnvVar); override != "" {
		endpoint = override
	}
	if endpoint == "" {
		return "", "", errors.New(errors.ErrTypeConfig, fmt.Sprintf("environment %q has no endpoint", name))
	}

	return name, strings.TrimRight(endpoint, "/"), nil
}

// EnvironmentNames 返回按字典序排序的环境名列表。
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
