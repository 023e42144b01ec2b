package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage policies for the authentication token
const (
	StorageDurable = "durable" // survives restarts, cleared by logout
	StorageSession = "session" // lives for the process only
)

type Config struct {
	LogLevel     string        `yaml:"log_level" env:"TASKDECK_LOG_LEVEL" env-default:"INFO"`
	APIBaseURL   string        `yaml:"api_base_url" env:"TASKDECK_API_URL" env-default:"http://localhost:5000/api"`
	Timeout      time.Duration `yaml:"request_timeout" env:"TASKDECK_TIMEOUT" env-default:"10s"`
	TokenStorage string        `yaml:"token_storage" env:"TASKDECK_TOKEN_STORAGE" env-default:"durable"`
	StatePath    string        `yaml:"state_path" env:"TASKDECK_STATE_PATH" env-default:""`
	PollInterval time.Duration `yaml:"poll_interval" env:"TASKDECK_POLL_INTERVAL" env-default:"30s"`
	// HomeRedirect sends authenticated users from the landing page straight
	// to the dashboard.
	HomeRedirect bool `yaml:"home_redirect" env:"TASKDECK_HOME_REDIRECT" env-default:"true"`
}

func MustLoad(configPath string) Config {
	var cfg Config

	// no path - env only
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	// try the file, fall back to env when it does not exist
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
