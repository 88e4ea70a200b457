package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "FOUNDLY"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv                 = "FOUNDLY_APP_ENV"
	EnvPort                   = "FOUNDLY_APP_PORT"
	EnvDBDSN                  = "FOUNDLY_DB_DSN"
	EnvDBHost                 = "FOUNDLY_DB_HOST"
	EnvDBUser                 = "FOUNDLY_DB_USER"
	EnvDBName                 = "FOUNDLY_DB_NAME"
	EnvRedisURL               = "FOUNDLY_REDIS_URL"
	EnvJWTSecret              = "FOUNDLY_JWT_SECRET"
	EnvJWTIssuer              = "FOUNDLY_JWT_ISSUER"
	EnvJWTExpMins             = "FOUNDLY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FOUNDLY_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Media         MediaConfig
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
	Env          string `envconfig:"FOUNDLY_APP_ENV" required:"true"`
	Port         string `envconfig:"FOUNDLY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOUNDLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOUNDLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOUNDLY_DB_DSN"`
	Driver string `envconfig:"FOUNDLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOUNDLY_DB_HOST"`
	LegacyPort     int    `envconfig:"FOUNDLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOUNDLY_DB_USER"`
	LegacyPassword string `envconfig:"FOUNDLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOUNDLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOUNDLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOUNDLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOUNDLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOUNDLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOUNDLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOUNDLY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FOUNDLY_REDIS_ADDR"`
	Password     string        `envconfig:"FOUNDLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOUNDLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOUNDLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOUNDLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOUNDLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOUNDLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOUNDLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FOUNDLY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FOUNDLY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FOUNDLY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FOUNDLY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOUNDLY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOUNDLY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOUNDLY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOUNDLY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOUNDLY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FOUNDLY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FOUNDLY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FOUNDLY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FOUNDLY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FOUNDLY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FOUNDLY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate     bool `envconfig:"FOUNDLY_AUTO_MIGRATE" default:"false"`
	SeedSampleUsers bool `envconfig:"FOUNDLY_SEED_SAMPLE_USERS" default:"false"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"FOUNDLY_MAX_UPLOAD_MB" default:"10"`
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
