package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "GOTOURS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	passwordPlaceholder = "<PASSWORD>"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	Email     EmailConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig
	Features  FeatureFlagsConfig
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
	Env          string `envconfig:"GOTOURS_APP_ENV" required:"true"`
	Port         string `envconfig:"GOTOURS_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"GOTOURS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GOTOURS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// DSN may embed a <PASSWORD> placeholder which is substituted with
	// GOTOURS_DB_PASSWORD before connecting.
	DSN      string `envconfig:"GOTOURS_DB_DSN"`
	Password string `envconfig:"GOTOURS_DB_PASSWORD"`
	Driver   string `envconfig:"GOTOURS_DB_DRIVER" default:"postgres"`

	Host    string `envconfig:"GOTOURS_DB_HOST"`
	Port    int    `envconfig:"GOTOURS_DB_PORT" default:"5432"`
	User    string `envconfig:"GOTOURS_DB_USER"`
	Name    string `envconfig:"GOTOURS_DB_NAME"`
	SSLMode string `envconfig:"GOTOURS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GOTOURS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GOTOURS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GOTOURS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GOTOURS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GOTOURS_REDIS_URL"`
	Address      string        `envconfig:"GOTOURS_REDIS_ADDR"`
	Password     string        `envconfig:"GOTOURS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GOTOURS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GOTOURS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GOTOURS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GOTOURS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GOTOURS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GOTOURS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GOTOURS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GOTOURS_JWT_ISSUER" default:"gotours"`
	ExpirationMinutes int    `envconfig:"GOTOURS_JWT_EXPIRATION_MINUTES" default:"129600"`
	CookieExpiresHrs  int    `envconfig:"GOTOURS_JWT_COOKIE_EXPIRES_HOURS" default:"2160"`
}

// CookieTTL returns the jwt cookie lifetime configured in hours.
func (j JWTConfig) CookieTTL() time.Duration {
	if j.CookieExpiresHrs <= 0 {
		return 0
	}
	return time.Duration(j.CookieExpiresHrs) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GOTOURS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GOTOURS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GOTOURS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GOTOURS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GOTOURS_ARGON_KEY_LEN" default:"32"`

	ResetTokenTTLMinutes int `envconfig:"GOTOURS_RESET_TOKEN_TTL_MINUTES" default:"10"`
}

// ResetTokenTTL returns the password reset token lifetime.
func (p PasswordConfig) ResetTokenTTL() time.Duration {
	if p.ResetTokenTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(p.ResetTokenTTLMinutes) * time.Minute
}

type EmailConfig struct {
	ResendAPIKey string `envconfig:"GOTOURS_RESEND_API_KEY"`
	FromName     string `envconfig:"GOTOURS_EMAIL_FROM_NAME" default:"GoTours"`
	FromAddress  string `envconfig:"GOTOURS_EMAIL_FROM_ADDRESS" default:"hello@gotours.dev"`
}

type HTTPConfig struct {
	MaxBodyBytes int64 `envconfig:"GOTOURS_HTTP_MAX_BODY_BYTES" default:"10240"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"GOTOURS_RATE_LIMIT_WINDOW" default:"1h"`
	Limit  int64         `envconfig:"GOTOURS_RATE_LIMIT_MAX" default:"100"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GOTOURS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GOTOURS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		if strings.Contains(db.DSN, passwordPlaceholder) {
			db.DSN = strings.ReplaceAll(db.DSN, passwordPlaceholder, url.QueryEscape(db.Password))
		}
		return nil
	}

	missing := []string{}
	for _, pair := range []struct{ env, value string }{
		{"GOTOURS_DB_HOST", db.Host},
		{"GOTOURS_DB_USER", db.User},
		{"GOTOURS_DB_NAME", db.Name},
	} {
		if pair.value == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either GOTOURS_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
