package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "procuremart"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "PROCUREMART_DB_DSN"
	EnvDBHost = "PROCUREMART_DB_HOST"
	EnvDBUser = "PROCUREMART_DB_USER"
	EnvDBName = "PROCUREMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
	Outbox        OutboxConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PROCUREMART_APP_ENV" required:"true"`
	Port         string `envconfig:"PROCUREMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PROCUREMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PROCUREMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PROCUREMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PROCUREMART_DB_DSN"`
	Driver string `envconfig:"PROCUREMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PROCUREMART_DB_HOST"`
	LegacyPort     int    `envconfig:"PROCUREMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PROCUREMART_DB_USER"`
	LegacyPassword string `envconfig:"PROCUREMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"PROCUREMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"PROCUREMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PROCUREMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PROCUREMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PROCUREMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PROCUREMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PROCUREMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PROCUREMART_REDIS_ADDR"`
	Password     string        `envconfig:"PROCUREMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"PROCUREMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PROCUREMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROCUREMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROCUREMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROCUREMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROCUREMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PROCUREMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PROCUREMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PROCUREMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PROCUREMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PROCUREMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PROCUREMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PROCUREMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PROCUREMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PROCUREMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PROCUREMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PROCUREMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PROCUREMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PROCUREMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PROCUREMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PROCUREMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PROCUREMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PROCUREMART_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig overrides the delivery fee policy; zero values fall back to
// the package defaults in pkg/checkout.
type CheckoutConfig struct {
	DeliveryFeeCents           int `envconfig:"PROCUREMART_CHECKOUT_DELIVERY_FEE_CENTS" default:"0"`
	FreeDeliveryThresholdCents int `envconfig:"PROCUREMART_CHECKOUT_FREE_DELIVERY_THRESHOLD_CENTS" default:"0"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PROCUREMART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PROCUREMART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PROCUREMART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"PROCUREMART_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"PROCUREMART_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"PROCUREMART_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type PubSubConfig struct {
	OrdersTopic           string `envconfig:"PROCUREMART_PUBSUB_ORDERS_TOPIC" default:"pm-order-events"`
	OrdersSubscription    string `envconfig:"PROCUREMART_PUBSUB_ORDERS_SUBSCRIPTION"`
	QuotesTopic           string `envconfig:"PROCUREMART_PUBSUB_QUOTES_TOPIC" default:"pm-quote-events"`
	QuotesSubscription    string `envconfig:"PROCUREMART_PUBSUB_QUOTES_SUBSCRIPTION"`
	AnalyticsSubscription string `envconfig:"PROCUREMART_PUBSUB_ANALYTICS_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset                string `envconfig:"PROCUREMART_BIGQUERY_DATASET" default:"procuremart"`
	MarketplaceEventsTable string `envconfig:"PROCUREMART_BIGQUERY_MARKETPLACE_TABLE" default:"marketplace_events"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"PROCUREMART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"PROCUREMART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"PROCUREMART_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"PROCUREMART_OUTBOX_IDEMPOTENCY_TTL" default:"72h"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"PROCUREMART_CRON_INTERVAL" default:"24h"`
	QuoteExpiryDays       int           `envconfig:"PROCUREMART_CRON_QUOTE_EXPIRY_DAYS" default:"14"`
	NotificationRetention int           `envconfig:"PROCUREMART_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
