package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config reúne as variáveis de ambiente do serviço.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Env         string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL"`    // vazio = cache em memória
	RabbitMQURL string `env:"RABBITMQ_URL"` // vazio = eventos desligados

	MailHost string `env:"MAIL_HOST"`
	MailPort int    `env:"MAIL_PORT" envDefault:"587"`
	MailUser string `env:"MAIL_USER"`
	MailPass string `env:"MAIL_PASS"`
	MailFrom string `env:"MAIL_FROM"`

	Timezone    string   `env:"TIMEZONE" envDefault:"America/Sao_Paulo"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	StatsWarmInterval time.Duration `env:"STATS_WARM_INTERVAL" envDefault:"5m"`
	StatsCacheTTL     time.Duration `env:"STATS_CACHE_TTL" envDefault:"10m"`
	LeadsPageSize     int           `env:"LEADS_PAGE_SIZE" envDefault:"100"`
}

// Load lê o .env (quando existir) e depois o ambiente. Variáveis já
// definidas no ambiente têm precedência sobre o arquivo.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.LeadsPageSize <= 0 {
		return nil, fmt.Errorf("config: LEADS_PAGE_SIZE deve ser positivo")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("config: TIMEZONE inválido %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && c.MailFrom != ""
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
