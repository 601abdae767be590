package config

import (
	"dualis-watch/internal/chrono"
	"dualis-watch/lib/configutil"
	"dualis-watch/lib/notify"
	"dualis-watch/lib/scrapers/dualis"
	"dualis-watch/lib/snapshotstore"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const DefaultSchedule = "@every 15m"

const (
	// a single overview page lists every course
	ModeOverview = "overview"
	// every semester listing is walked and each course detail page is parsed
	ModeCourses = "courses"
)

// Credentials are never read from the config file.
type Credentials struct {
	Username string `envconfig:"DUALIS_EMAIL" required:"true" validate:"required"`
	Password string `envconfig:"DUALIS_PASSWORD" required:"true" validate:"required"`
}

type HttpConfig struct {
	// seconds, defaults to 30
	Timeout           int     `json:"timeout" validate:"gte=0"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
	// directory receiving a dump of every http exchange
	DumpDir string `json:"dump_dir"`
}

func (c HttpConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

type Config struct {
	BaseUrl  string `json:"base_url" validate:"required,url"`
	Mode     string `json:"mode" validate:"oneof=overview courses"`
	Schedule string `json:"schedule" validate:"required"`
	// maximum amount of detail pages fetched at the same time
	Concurrency int `json:"concurrency" validate:"gte=1"`

	Http   HttpConfig           `json:"http"`
	Layout dualis.Layout        `json:"layout"`
	Store  snapshotstore.Config `json:"store"`
	Notify notify.Config        `json:"notify"`
}

var defaults = Config{
	BaseUrl:     "https://dualis.dhbw.de",
	Mode:        ModeOverview,
	Schedule:    DefaultSchedule,
	Concurrency: 4,
	Layout:      dualis.DefaultLayout,
}

// a configured backend replaces the default one as a whole
var defaultStore = snapshotstore.Config{
	Kind: "file",
	File: &snapshotstore.FileConfig{Path: "dualis_snapshot.json"},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadEnv loads a .env file into the environment when one exists, values
// already present in the environment win.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ReadCredentials reads the account from DUALIS_EMAIL and DUALIS_PASSWORD.
func ReadCredentials() (Credentials, error) {
	var creds Credentials
	err := envconfig.Process("", &creds)
	if err != nil {
		return Credentials{}, err
	}
	return creds, creds.Validate()
}

// Read reads the config file at path (and its .local override) on top of
// the defaults and validates the result. Options present in the files win,
// zero included. A missing file yields the defaults.
func Read(path string) (Config, error) {
	config, err := configutil.ReadConfigOnto(path, defaults)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		err = nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if config.Store.Kind == "" {
		config.Store = defaultStore
	}
	return config, config.Validate()
}

// Resolve fills unset options of a config built in code from defaults and
// validates the result. Every zero option counts as unset here, so layout
// column 0 can only be chosen through Read.
func Resolve(config Config) (Config, error) {
	if config.Store.Kind == "" {
		config.Store = defaultStore
	}
	config, err := configutil.WithDefaults(config, defaults)
	if err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	err = c.Layout.Validate()
	if err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	err = chrono.ValidateSpec(c.Schedule)
	if err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", c.Schedule, err)
	}
	return nil
}

func (c Credentials) Validate() error {
	return validate.Struct(c)
}
