package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds infrastructure credentials read from config.yaml plus runtime
// options parsed from LUNCH_* env vars / flags.
type Config struct {
	DBUsername  string `yaml:"db_username"`
	DBPassword  string `yaml:"db_password"`
	DBHost      string `yaml:"db_host"`
	DBPort      string `yaml:"db_port"`
	DBName      string `yaml:"db_name"`
	DisableTLS  bool   `yaml:"disable_tls"`
	RedisAddr   string `yaml:"redis_addr"`
	JWTKey      string `yaml:"jwt_key"`
	BrevoAPIKey string `yaml:"brevo_api_key"`
	SenderName  string `yaml:"sender_name"`
	SenderEmail string `yaml:"sender_email"`

	Runtime Runtime `yaml:"-"`
}

type Runtime struct {
	HTTPPort       string        `conf:"default::8080"`
	Timezone       string        `conf:"default:Local"`
	CutoffTime     string        `conf:"default:09:30"`
	SchedulerTick  time.Duration `conf:"default:30s"`
	CatchUpOnStart bool          `conf:"default:false"`
	DefaultStatus  string        `conf:"default:home"`
	CacheTTL       time.Duration `conf:"default:60s"`
	SendTimeout    time.Duration `conf:"default:10s"`
	LogFile        string        `conf:"default:lunch-backend.log"`
}

func NewConfig(args []string) (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "reading config.yaml")
	}

	if err = yaml.Unmarshal(yamlFile, &c); err != nil {
		return nil, errors.Wrap(err, "parsing config.yaml")
	}

	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}
	if c.JWTKey == "" {
		return nil, errors.New("missing jwt_key")
	}

	if err = conf.Parse(args, "LUNCH", &c.Runtime); err != nil {
		if err == conf.ErrHelpWanted {
			usage, uerr := conf.Usage("LUNCH", &c.Runtime)
			if uerr != nil {
				return nil, errors.Wrap(uerr, "generating config usage")
			}
			fmt.Println(usage)
			return nil, conf.ErrHelpWanted
		}
		return nil, errors.Wrap(err, "parsing runtime config")
	}

	return &c, nil
}

// Location resolves the configured timezone; "Local" keeps the host zone.
func (r Runtime) Location() (*time.Location, error) {
	if r.Timezone == "" || r.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(r.Timezone)
}

// CutoffClock parses CutoffTime ("HH:MM") into wall-clock hour and minute.
func (r Runtime) CutoffClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", r.CutoffTime)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "parsing cutoff time %q", r.CutoffTime)
	}
	return t.Hour(), t.Minute(), nil
}
