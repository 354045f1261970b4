package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultMaxVotes = 10

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Contest  *ContestConfig  `mapstructure:"contest"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ContestConfig holds contest tunables. MaxVotes is hot-reloadable: the
// running value lives in an atomic so in-flight vote checks never read a
// half-updated config.
type ContestConfig struct {
	maxVotes atomic.Int64
}

func (c *ContestConfig) MaxVotes() int {
	return int(c.maxVotes.Load())
}

func (c *ContestConfig) SetMaxVotes(n int) {
	if n <= 0 {
		n = defaultMaxVotes
	}
	c.maxVotes.Store(int64(n))
}

func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := AppConfig{}
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if conf.Contest == nil {
		conf.Contest = &ContestConfig{}
	}
	conf.Contest.SetMaxVotes(viper.GetInt("contest.max_votes"))

	// Pick up max_votes edits without a restart.
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := viper.ReadInConfig(); err != nil {
			zap.L().Warn("failed to reload config", zap.String("file", e.Name), zap.Error(err))
			return
		}
		conf.Contest.SetMaxVotes(viper.GetInt("contest.max_votes"))
		zap.L().Info("config reloaded", zap.Int("max_votes", conf.Contest.MaxVotes()))
	})

	return &conf, nil
}
