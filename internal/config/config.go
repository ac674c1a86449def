package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sbilibin2017/gw-payment-ledger/internal/models"
)

// ErrMissingCredentials is returned when no gateway access token is configured.
var ErrMissingCredentials = errors.New("payment gateway credentials are not configured")

// Config is the complete service configuration.
type Config struct {
	App struct {
		Host     string `envconfig:"APP_HOST" default:"localhost"`
		Port     string `envconfig:"APP_PORT" default:"8080"`
		LogLevel string `envconfig:"APP_LOG_LEVEL" default:"info"`
		// Comma separated list of origins allowed by CORS.
		AllowedOrigins []string `envconfig:"APP_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Postgres struct {
		Host         string `envconfig:"POSTGRES_HOST" default:"localhost"`
		Port         int    `envconfig:"POSTGRES_PORT" default:"5432"`
		User         string `envconfig:"POSTGRES_USER" default:"user"`
		Password     string `envconfig:"POSTGRES_PASSWORD" default:"password"`
		DB           string `envconfig:"POSTGRES_DB" default:"database"`
		MaxOpenConns int    `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"16"`
		MaxIdleConns int    `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"8"`
	}

	Redis struct {
		Host         string        `envconfig:"REDIS_HOST" default:"localhost"`
		Port         int           `envconfig:"REDIS_PORT" default:"6379"`
		DB           int           `envconfig:"REDIS_DB" default:"0"`
		Password     string        `envconfig:"REDIS_PASSWORD" default:""`
		PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
		MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
		LockTTL      time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30s"`
	}

	Kafka struct {
		Brokers            []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
		TransactionsTopic  string   `envconfig:"KAFKA_TRANSACTIONS_TOPIC" default:"wallet-transactions"`
		NotificationsTopic string   `envconfig:"KAFKA_NOTIFICATIONS_TOPIC" default:"notifications"`
	}

	JWT struct {
		SecretKey string `envconfig:"JWT_SECRET_KEY" default:"my_super_secret_key"`
		ExpSecond int    `envconfig:"JWT_EXP_SECOND" default:"3600"`
	}

	Gateway Gateway

	Cron struct {
		Token string `envconfig:"CRON_TOKEN" default:""`
	}
}

// Gateway holds the payment gateway credentials and URLs.
type Gateway struct {
	AccessToken       string `envconfig:"MP_ACCESS_TOKEN"`
	PublicKey         string `envconfig:"MP_PUBLIC_KEY"`
	BaseURL           string `envconfig:"MP_BASE_URL" default:"https://api.mercadopago.com"`
	Sandbox           bool   `envconfig:"MP_SANDBOX" default:"false"`
	SiteURL           string `envconfig:"SITE_URL" default:"http://localhost:5173"`
	APIBaseURL        string `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
	DefaultPayerEmail string `envconfig:"MP_DEFAULT_PAYER_EMAIL" default:"pagamentos@bancodemodelos.com.br"`
	CurrencyID        string `envconfig:"MP_CURRENCY_ID" default:"BRL"`
	StatementName     string `envconfig:"MP_STATEMENT_DESCRIPTOR" default:"BANCODEMODELOS"`

	WebhookPathDeposit      string `envconfig:"WEBHOOK_PATH_WALLET_DEPOSIT" default:"/api/v1/webhooks/mercadopago/wallet_deposit"`
	WebhookPathHiring       string `envconfig:"WEBHOOK_PATH_HIRING_PAYMENT" default:"/api/v1/webhooks/mercadopago/hiring_payment"`
	WebhookPathSubscription string `envconfig:"WEBHOOK_PATH_SUBSCRIPTION_PAYMENT" default:"/api/v1/webhooks/mercadopago/subscription_payment"`

	SubscriptionPeriodDays int `envconfig:"SUBSCRIPTION_PERIOD_DAYS" default:"30"`
	// SubscriptionPriceCents is the price of one subscription period.
	SubscriptionPriceCents int64 `envconfig:"SUBSCRIPTION_PRICE_CENTS" default:"2990"`
	// ConfirmWebhookStatus re-reads the status of direct status webhooks from the gateway.
	ConfirmWebhookStatus bool          `envconfig:"MP_CONFIRM_WEBHOOK_STATUS" default:"true"`
	Timeout              time.Duration `envconfig:"MP_TIMEOUT" default:"10s"`
}

// AccessTokenOrErr returns the gateway access token or ErrMissingCredentials.
func (g Gateway) AccessTokenOrErr() (string, error) {
	if strings.TrimSpace(g.AccessToken) == "" {
		return "", ErrMissingCredentials
	}
	return g.AccessToken, nil
}

// WebhookURL returns the absolute notification URL for a purpose.
func (g Gateway) WebhookURL(purpose models.Purpose) string {
	path := g.WebhookPathDeposit
	switch purpose {
	case models.PurposeHiringPayment:
		path = g.WebhookPathHiring
	case models.PurposeSubscriptionPayment:
		path = g.WebhookPathSubscription
	}
	return strings.TrimRight(g.APIBaseURL, "/") + path + "?source_news=webhooks"
}

// BackURLs returns the browser return URLs for a checkout.
func (g Gateway) BackURLs() models.BackURLs {
	base := strings.TrimRight(g.SiteURL, "/")
	return models.BackURLs{
		Success: base + "/pagamento/sucesso",
		Failure: base + "/pagamento/falha",
		Pending: base + "/pagamento/pendente",
	}
}

// PostgresDSN builds the pgx connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Postgres.User, c.Postgres.Password, c.Postgres.Host, c.Postgres.Port, c.Postgres.DB)
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Load reads the optional env file at path and then the process environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}
