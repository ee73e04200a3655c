package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel     string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	APIBaseURL   string `yaml:"api-base-url" env:"API_BASE_URL" env-default:"http://localhost:9090"`
	Transport    string `yaml:"transport" env:"TRANSPORT" env-default:"redis"`
	WebsocketURL string `yaml:"websocket-url" env:"WEBSOCKET_URL" env-default:"ws://localhost:8080/ws-tictactoe"`
	Redis        Redis  `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
