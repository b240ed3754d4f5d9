/**
 * Agent端配置管理
 * @author: sun977
 * @date: 2025.10.21
 * @description: Agent端配置管理，负责加载和管理所有配置
 */
package config

import (
	"fmt"
	"time"
)

// Config Agent配置
type Config struct {
	// 应用配置
	App *AppConfig `yaml:"app" mapstructure:"app"`

	// 日志配置
	Log *LogConfig `yaml:"log" mapstructure:"log"`

	// 扫描默认配置
	Scan *ScanConfig `yaml:"scan" mapstructure:"scan"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`               // 应用名称
	Version     string `yaml:"version" mapstructure:"version"`         // 应用版本
	Environment string `yaml:"environment" mapstructure:"environment"` // 运行环境
	Debug       bool   `yaml:"debug" mapstructure:"debug"`             // 调试模式
	Timezone    string `yaml:"timezone" mapstructure:"timezone"`       // 时区
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`             // 日志级别 (debug/info/warn/error)
	Format     string `yaml:"format" mapstructure:"format"`           // 日志格式 (json/text)
	Output     string `yaml:"output" mapstructure:"output"`           // 日志输出 (stdout/file/both)
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`     // 日志文件路径
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // 最大文件大小（MB）
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // 最大备份数
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // 最大保留天数
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // 是否压缩
	Caller     bool   `yaml:"caller" mapstructure:"caller"`           // 是否显示调用者信息
}

// ScanConfig 扫描默认配置，为 CLI 未显式传入的 flag 提供兜底值
type ScanConfig struct {
	// DefaultConcurrency 存活扫描/端口扫描的默认并发数
	DefaultConcurrency int `yaml:"default_concurrency" mapstructure:"default_concurrency"`

	// DefaultTimeout 单个探测/扫描任务的默认超时
	DefaultTimeout time.Duration `yaml:"default_timeout" mapstructure:"default_timeout"`

	// DefaultTcpPorts 存活扫描 TCP 探测的默认端口集合
	DefaultTcpPorts []int `yaml:"default_tcp_ports" mapstructure:"default_tcp_ports"`

	// RTTWarmup 端口扫描是否默认启用前置 RTT 校准
	RTTWarmup bool `yaml:"rtt_warmup" mapstructure:"rtt_warmup"`
}

// LoadConfig 加载配置
func LoadConfig(configPath ...string) (*Config, error) {
	var path string
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	loader := NewConfigLoader(path, "NEOAGENT")
	config, err := loader.LoadConfig()
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// setDefaults 设置默认值
func setDefaults(config *Config) {
	if config.App == nil {
		config.App = &AppConfig{}
	}
	if config.App.Name == "" {
		config.App.Name = "neoagent"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}
	if config.App.Environment == "" {
		config.App.Environment = "development"
	}
	if config.App.Timezone == "" {
		config.App.Timezone = "UTC"
	}

	if config.Log == nil {
		config.Log = &LogConfig{}
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Log.Output == "" {
		config.Log.Output = "stdout"
	}
	if config.Log.MaxSize == 0 {
		config.Log.MaxSize = 100
	}
	if config.Log.MaxBackups == 0 {
		config.Log.MaxBackups = 10
	}
	if config.Log.MaxAge == 0 {
		config.Log.MaxAge = 30
	}

	if config.Scan == nil {
		config.Scan = &ScanConfig{}
	}
	if config.Scan.DefaultConcurrency == 0 {
		config.Scan.DefaultConcurrency = 1000
	}
	if config.Scan.DefaultTimeout == 0 {
		config.Scan.DefaultTimeout = 2 * time.Second
	}
	if len(config.Scan.DefaultTcpPorts) == 0 {
		config.Scan.DefaultTcpPorts = []int{22, 23, 80, 139, 443, 445, 3389}
	}
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	if config.Scan.DefaultConcurrency <= 0 {
		return fmt.Errorf("invalid default concurrency: %d", config.Scan.DefaultConcurrency)
	}
	if config.Scan.DefaultTimeout <= 0 {
		return fmt.Errorf("invalid default timeout: %s", config.Scan.DefaultTimeout)
	}
	return nil
}

// GetConfig 获取配置（单例模式）
var globalConfig *Config

func GetConfig() *Config {
	if globalConfig == nil {
		var err error
		globalConfig, err = LoadConfig("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load config: %v", err))
		}
	}
	return globalConfig
}

// ReloadConfig 重新加载配置
func ReloadConfig() error {
	newConfig, err := LoadConfig("")
	if err != nil {
		return err
	}

	globalConfig = newConfig
	return nil
}
