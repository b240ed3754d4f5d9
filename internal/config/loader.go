package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigLoader 配置加载器
type ConfigLoader struct {
	configPath string
	envPrefix  string
	viper      *viper.Viper
}

// NewConfigLoader 创建配置加载器
func NewConfigLoader(configPath, envPrefix string) *ConfigLoader {
	if envPrefix == "" {
		envPrefix = "NEOAGENT"
	}

	return &ConfigLoader{
		configPath: configPath,
		envPrefix:  envPrefix,
		viper:      viper.New(),
	}
}

// LoadConfig 加载配置
func (cl *ConfigLoader) LoadConfig() (*Config, error) {
	// .env 文件先于配置文件/环境变量生效，方便本地开发覆盖默认值
	_ = InitGlobalEnvLoader()

	cl.viper.SetConfigType("yaml")

	cl.viper.SetEnvPrefix(cl.envPrefix)
	cl.viper.AutomaticEnv()
	cl.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cl.bindEnvVars()

	var config Config
	setDefaults(&config)
	cl.applyViperDefaults(&config)

	// 找不到配置文件时沿用内置默认值，不视为致命错误——这是一个单机 CLI
	// 工具，运行时没有配置文件是正常情况。环境变量覆盖在两种情况下都生效。
	_ = cl.loadConfigFile()
	if err := cl.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadConfigFile 加载配置文件
func (cl *ConfigLoader) loadConfigFile() error {
	if cl.configPath == "" {
		if envPath := os.Getenv("NEOAGENT_CONFIG_PATH"); envPath != "" {
			cl.configPath = envPath
		} else {
			cl.configPath = "./configs"
		}
	}

	cl.viper.AddConfigPath(cl.configPath)
	cl.viper.AddConfigPath("./configs")
	cl.viper.AddConfigPath(".")
	cl.viper.SetConfigName("config")

	return cl.viper.ReadInConfig()
}

// bindEnvVars 绑定环境变量
func (cl *ConfigLoader) bindEnvVars() {
	cl.viper.BindEnv("app.name", "NEOAGENT_APP_NAME")
	cl.viper.BindEnv("app.version", "NEOAGENT_APP_VERSION")
	cl.viper.BindEnv("app.environment", "NEOAGENT_APP_ENVIRONMENT")
	cl.viper.BindEnv("app.debug", "NEOAGENT_APP_DEBUG")
	cl.viper.BindEnv("app.timezone", "NEOAGENT_APP_TIMEZONE")

	cl.viper.BindEnv("log.level", "NEOAGENT_LOG_LEVEL")
	cl.viper.BindEnv("log.format", "NEOAGENT_LOG_FORMAT")
	cl.viper.BindEnv("log.file_path", "NEOAGENT_LOG_FILE_PATH")

	cl.viper.BindEnv("scan.default_concurrency", "NEOAGENT_SCAN_CONCURRENCY")
	cl.viper.BindEnv("scan.default_timeout", "NEOAGENT_SCAN_TIMEOUT")
	cl.viper.BindEnv("scan.rtt_warmup", "NEOAGENT_SCAN_RTT_WARMUP")
}

// applyViperDefaults 把结构体默认值灌回 viper，使配置文件/环境变量的局部
// 覆盖不会意外把其余字段清零
func (cl *ConfigLoader) applyViperDefaults(config *Config) {
	cl.viper.SetDefault("app.name", config.App.Name)
	cl.viper.SetDefault("app.version", config.App.Version)
	cl.viper.SetDefault("app.environment", config.App.Environment)
	cl.viper.SetDefault("app.debug", config.App.Debug)
	cl.viper.SetDefault("app.timezone", config.App.Timezone)

	cl.viper.SetDefault("log.level", config.Log.Level)
	cl.viper.SetDefault("log.format", config.Log.Format)
	cl.viper.SetDefault("log.output", config.Log.Output)
	cl.viper.SetDefault("log.file_path", config.Log.FilePath)
	cl.viper.SetDefault("log.max_size", config.Log.MaxSize)
	cl.viper.SetDefault("log.max_backups", config.Log.MaxBackups)
	cl.viper.SetDefault("log.max_age", config.Log.MaxAge)
	cl.viper.SetDefault("log.compress", config.Log.Compress)
	cl.viper.SetDefault("log.caller", config.Log.Caller)

	cl.viper.SetDefault("scan.default_concurrency", config.Scan.DefaultConcurrency)
	cl.viper.SetDefault("scan.default_timeout", config.Scan.DefaultTimeout)
	cl.viper.SetDefault("scan.default_tcp_ports", config.Scan.DefaultTcpPorts)
	cl.viper.SetDefault("scan.rtt_warmup", config.Scan.RTTWarmup)
}

// GetConfigPath 获取配置文件路径
func (cl *ConfigLoader) GetConfigPath() string {
	return cl.viper.ConfigFileUsed()
}

// LoadConfigFromFile 从指定文件加载配置
func LoadConfigFromFile(configFile string) (*Config, error) {
	configPath := filepath.Dir(configFile)
	loader := NewConfigLoader(configPath, "NEOAGENT")
	return loader.LoadConfig()
}
