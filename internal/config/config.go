package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	UITerminal = "tui"
	UIWeb      = "web"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile  string  `yaml:"log-file" env:"LOG_FILE" env-default:""`
	UI       string  `yaml:"ui" env:"UI" env-default:"tui"`
	HTTPPort string  `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	Gateway  Gateway `yaml:"gateway"`
	Board    Board   `yaml:"board"`
	TUI      TUI     `yaml:"tui"`
	Web      Web     `yaml:"web"`
}

type Gateway struct {
	BaseURL string        `yaml:"base-url" env:"GATEWAY_BASE_URL" env-default:"http://localhost:5000"`
	Timeout time.Duration `yaml:"timeout" env:"GATEWAY_TIMEOUT" env-default:"10s"`
}

type Board struct {
	EmptyMarker string `yaml:"empty-marker" env:"BOARD_EMPTY_MARKER" env-default:" "`
}

type TUI struct {
	NoColor bool `yaml:"no-color" env:"TUI_NO_COLOR" env-default:"false"`
}

type Web struct {
	MaxSessions int           `yaml:"max-sessions" env:"WEB_MAX_SESSIONS" env-default:"1000"`
	SessionTTL  time.Duration `yaml:"session-ttl" env:"WEB_SESSION_TTL" env-default:"30m"`
}

var ErrUnknownUI = errors.New("unknown ui mode")

// MustLoad - load configuration from the yml file at path, falling back to the environment
// when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	default:
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err = config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) validate() error {
	if that.UI != UITerminal && that.UI != UIWeb {
		return fmt.Errorf("%w: %q", ErrUnknownUI, that.UI)
	}

	return nil
}
