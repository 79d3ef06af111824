package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PICKUP_DB_DSN"
	EnvDBHost = "PICKUP_DB_HOST"
	EnvDBUser = "PICKUP_DB_USER"
	EnvDBName = "PICKUP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Pickup        PickupConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"PICKUP_APP_ENV" required:"true"`
	Port         string `envconfig:"PICKUP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PICKUP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PICKUP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PICKUP_DB_DSN"`
	Driver string `envconfig:"PICKUP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PICKUP_DB_HOST"`
	LegacyPort     int    `envconfig:"PICKUP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PICKUP_DB_USER"`
	LegacyPassword string `envconfig:"PICKUP_DB_PASSWORD"`
	LegacyName     string `envconfig:"PICKUP_DB_NAME"`
	LegacySSLMode  string `envconfig:"PICKUP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PICKUP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PICKUP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PICKUP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PICKUP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PICKUP_REDIS_URL"`
	Address      string        `envconfig:"PICKUP_REDIS_ADDR"`
	Password     string        `envconfig:"PICKUP_REDIS_PASSWORD"`
	DB           int           `envconfig:"PICKUP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PICKUP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PICKUP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PICKUP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PICKUP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PICKUP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PICKUP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PICKUP_JWT_ISSUER" default:"pickup-livery"`
	ExpirationMinutes int    `envconfig:"PICKUP_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PICKUP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PICKUP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PICKUP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PICKUP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PICKUP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow    time.Duration `envconfig:"PICKUP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit int           `envconfig:"PICKUP_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit   int           `envconfig:"PICKUP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// PickupConfig carries the pickup-domain policy knobs that are deployment
// constants rather than admin-editable settings.
type PickupConfig struct {
	// Timezone is the single civil timezone used to resolve every pharmacy's
	// local cutoff schedule. There is deliberately no per-pharmacy zone.
	Timezone string `envconfig:"PICKUP_LOCAL_TIMEZONE" default:"Europe/Berlin"`

	MaxPhotoSlots  int `envconfig:"PICKUP_MAX_PHOTO_SLOTS" default:"4"`
	MaxUploadMB    int `envconfig:"PICKUP_MAX_UPLOAD_MB" default:"20"`
	ImageMaxWidth  int `envconfig:"PICKUP_IMAGE_MAX_WIDTH" default:"1920"`
	ImageMaxHeight int `envconfig:"PICKUP_IMAGE_MAX_HEIGHT" default:"1920"`
	ImageQuality   int `envconfig:"PICKUP_IMAGE_QUALITY" default:"80"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PICKUP_AUTO_MIGRATE" default:"false"`
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
