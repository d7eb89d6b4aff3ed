package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Delivery     DeliveryConfig
	Store        StoreConfig
	Notify       NotifyConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SARI_APP_ENV" required:"true"`
	Port         string `envconfig:"SARI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SARI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SARI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SARI_DB_DSN"`
	Driver string `envconfig:"SARI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SARI_DB_HOST"`
	LegacyPort     int    `envconfig:"SARI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SARI_DB_USER"`
	LegacyPassword string `envconfig:"SARI_DB_PASSWORD"`
	LegacyName     string `envconfig:"SARI_DB_NAME"`
	LegacySSLMode  string `envconfig:"SARI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SARI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SARI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SARI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SARI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SARI_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SARI_REDIS_PASSWORD"`
	DB           int           `envconfig:"SARI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SARI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SARI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SARI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SARI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SARI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// DeliveryConfig holds the delivery fee rule. Values are whole pesos.
type DeliveryConfig struct {
	BaseFee               int `envconfig:"SARI_DELIVERY_BASE_FEE" default:"50"`
	FreeDeliveryThreshold int `envconfig:"SARI_DELIVERY_FREE_THRESHOLD" default:"1000"`
}

// BaseFeeAmount returns the base delivery fee as a decimal amount.
func (d DeliveryConfig) BaseFeeAmount() decimal.Decimal {
	return decimal.NewFromInt(int64(d.BaseFee))
}

// FreeThresholdAmount returns the free-delivery threshold as a decimal amount.
func (d DeliveryConfig) FreeThresholdAmount() decimal.Decimal {
	return decimal.NewFromInt(int64(d.FreeDeliveryThreshold))
}

type StoreConfig struct {
	Name        string `envconfig:"SARI_STORE_NAME" default:"Sari-Store"`
	OwnerEmail  string `envconfig:"SARI_STORE_OWNER_EMAIL" required:"true"`
	GCashNumber string `envconfig:"SARI_STORE_GCASH_NUMBER" default:"0917 123 4567"`
}

// NotifyConfig configures the ordered notification channel chain. A channel
// with missing credentials is skipped, never errored.
type NotifyConfig struct {
	ResendAPIKey  string        `envconfig:"SARI_RESEND_API_KEY"`
	ResendBaseURL string        `envconfig:"SARI_RESEND_BASE_URL" default:"https://api.resend.com"`
	ResendFrom    string        `envconfig:"SARI_RESEND_FROM" default:"onboarding@resend.dev"`
	RelayEndpoint string        `envconfig:"SARI_NOTIFY_RELAY_ENDPOINT"`
	RelayToken    string        `envconfig:"SARI_NOTIFY_RELAY_TOKEN"`
	Timeout       time.Duration `envconfig:"SARI_NOTIFY_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SARI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SARI_AUTO_MIGRATE" default:"false"`
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
