package config

// Config 配置文件结构
type Config struct {
	Version            string                 `json:"version" yaml:"version"`
	DefaultEnvironment string                 `json:"default_environment" yaml:"default_environment"`
	Environments       map[string]Environment `json:"environments" yaml:"environments"`
}

// Environment 描述一个可操作的配置服务环境
type Environment struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// Manager 配置管理器接口
type Manager interface {
	// Load 加载配置文件
	Load() (*Config, error)

	// Save 保存配置文件（原子操作）
	Save(config *Config) error

	// CreateDefaultConfig 创建默认配置
	CreateDefaultConfig() error
}
