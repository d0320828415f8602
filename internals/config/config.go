package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog/log"

	"Connect-4-AI/internals/engine"
)

type Config struct {
	Server struct {
		Host string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
		Port int    `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	} `yaml:"server"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"storage/connect4.db"`
	} `yaml:"database"`

	Game struct {
		MatchmakingTimeoutSeconds int `yaml:"matchmaking_timeout_seconds" env:"MATCHMAKING_TIMEOUT_SECONDS" env-default:"10"`
		ReconnectTimeoutSeconds   int `yaml:"reconnect_timeout_seconds" env:"RECONNECT_TIMEOUT_SECONDS" env-default:"30"`
		DisconnectedCacheSize     int `yaml:"disconnected_cache_size" env:"DISCONNECTED_CACHE_SIZE" env-default:"100"`
		BotMoveDelayMillis        int `yaml:"bot_move_delay_ms" env:"BOT_MOVE_DELAY_MS" env-default:"1000"`
	} `yaml:"game"`

	Engine struct {
		SearchDepth int `yaml:"search_depth" env:"ENGINE_SEARCH_DEPTH" env-default:"10"`
		ThreatDepth int `yaml:"threat_depth" env:"ENGINE_THREAT_DEPTH" env-default:"6"`
		CacheBits   int `yaml:"cache_bits" env:"ENGINE_CACHE_BITS" env-default:"18"`
		Workers     int `yaml:"workers" env:"ENGINE_WORKERS" env-default:"4"`
	} `yaml:"engine"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY" env-default:"false"`
	} `yaml:"log"`
}

// EngineOptions converts the engine section for engine.New.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Depth:       c.Engine.SearchDepth,
		ThreatDepth: c.Engine.ThreatDepth,
		CacheBits:   c.Engine.CacheBits,
	}
}

func (c *Config) MatchmakingTimeout() time.Duration {
	return time.Duration(c.Game.MatchmakingTimeoutSeconds) * time.Second
}

func (c *Config) ReconnectTimeout() time.Duration {
	return time.Duration(c.Game.ReconnectTimeoutSeconds) * time.Second
}

func (c *Config) BotMoveDelay() time.Duration {
	return time.Duration(c.Game.BotMoveDelayMillis) * time.Millisecond
}

// Load reads the YAML file at path, then applies environment overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if cfg.Engine.Workers <= 0 {
		cfg.Engine.Workers = 1
	}
	return &cfg, nil
}

func MustLoad() *Config {
	var configPath string
	configPath = os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configflag := flag.String("config", "", "Path to configuration file")
		flag.Parse()
		configPath = *configflag
		if configPath == "" {
			log.Fatal().Msg("Config Path is not set")
		}
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	return cfg
}
