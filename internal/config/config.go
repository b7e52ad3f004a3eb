package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	PlayerName string        `yaml:"player-name" env:"PLAYER_NAME" env-default:"Guest"`
	Server     Server        `yaml:"server"`
	Reconnect  time.Duration `yaml:"reconnect-delay" env:"RECONNECT_DELAY" env-default:"5s"`
	NoticeTTL  time.Duration `yaml:"notice-ttl" env:"NOTICE_TTL" env-default:"4s"`
}

type Server struct {
	Host       string `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`
	APIPort    string `yaml:"api-port" env:"API_PORT" env-default:"8080"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:""`
	Secure     bool   `yaml:"secure" env:"SERVER_SECURE" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// GetAPIBase - base URL for the request/response API.
func (that *Server) GetAPIBase() string {
	scheme := "http"
	if that.Secure {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s:%s", scheme, that.Host, that.APIPort)
}

// GetSocketURL - endpoint of the streaming connection. The scheme mirrors
// the API security setting; the socket port falls back to the API port
// when not set explicitly.
func (that *Server) GetSocketURL() string {
	scheme := "ws"
	if that.Secure {
		scheme = "wss"
	}

	port := that.SocketPort
	if port == "" {
		port = that.APIPort
	}

	return fmt.Sprintf("%s://%s:%s", scheme, that.Host, port)
}
