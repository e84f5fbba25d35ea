package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"10000"`
		Origin string `env:"ORIGIN" envDefault:"*"`

		// Swagger UI at /swagger/index.html
		SwaggerEnabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}

	Log struct {
		// Optional rotating log file in addition to stdout
		File   string `env:"LOG_FILE" envDefault:""`
		Format string `env:"LOG_FORMAT" envDefault:"console"` // console, json
	}

	Bot struct {
		Name        string        `env:"BOT_NAME" envDefault:"Batman"`
		Token       string        `env:"BOT_TOKEN,required,notEmpty"`
		AdminIDs    []int64       `env:"ADMIN_IDS" envSeparator:","`
		ContactURL  string        `env:"CONTACT_URL" envDefault:"https://t.me/e2E12"`
		Maintenance bool          `env:"MAINTENANCE" envDefault:"false"`
		APIURL      string        `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
	}

	Webhook struct {
		Host   string `env:"WEBHOOK_HOST"`
		Secret string `env:"WEBHOOK_SECRET,required,notEmpty"`
		// Do not call setWebhook on startup (local runs, tests)
		SkipSet bool `env:"SKIP_SET_WEBHOOK" envDefault:"false"`
	}

	Storage struct {
		DataDir      string `env:"DATA_DIR" envDefault:"data"`
		DBPath       string `env:"DB_PATH" envDefault:""`
		AccountsFile string `env:"ACCOUNTS_FILE" envDefault:"accounts.json"`
	}

	Broadcast struct {
		Interval time.Duration `env:"BROADCAST_INTERVAL" envDefault:"30ms"`
	}

	Redis struct {
		// Empty address disables update de-duplication
		Addr     string        `env:"REDIS_ADDR" envDefault:""`
		Password string        `env:"REDIS_PASSWORD" envDefault:""`
		DB       int           `env:"REDIS_DB" envDefault:"0"`
		DedupTTL time.Duration `env:"DEDUP_TTL" envDefault:"10m"`

		DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"2s"`
		IOTimeout   time.Duration `env:"REDIS_IO_TIMEOUT" envDefault:"500ms"`
	}
}

// Load reads .env (when present) and the process environment into Config.
func Load() (*Config, error) {
	// .env is optional; in production variables come from the environment
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Webhook.Host = strings.TrimRight(c.Webhook.Host, "/")
	c.Bot.APIURL = strings.TrimRight(c.Bot.APIURL, "/")
	if c.Webhook.Host == "" && !c.Webhook.SkipSet {
		return errors.New("WEBHOOK_HOST is required unless SKIP_SET_WEBHOOK is set")
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = filepath.Join(c.Storage.DataDir, "batman.db")
	}
	if c.Broadcast.Interval < 0 {
		return fmt.Errorf("invalid BROADCAST_INTERVAL: %s", c.Broadcast.Interval)
	}
	return nil
}

// WebhookPath is the path Telegram posts updates to. It embeds the bot token
// so the endpoint is not guessable.
func (c *Config) WebhookPath() string {
	return "/webhook/" + c.Bot.Token
}

// WebhookURL is the public URL registered with setWebhook.
func (c *Config) WebhookURL() string {
	return c.Webhook.Host + c.WebhookPath()
}

// IsAdmin reports whether id is in the ADMIN_IDS allow-list.
func (c *Config) IsAdmin(id int64) bool {
	for _, a := range c.Bot.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}
