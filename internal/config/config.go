package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vacancy-board/internal/domain/skill"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Vacancy  VacancyConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName          string
	Environment      string
	HTTPPort         string
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Driver selects the database.DB implementation: "pgxpool" or "stdlib".
	Driver string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32

	RunMigrations bool
	RunSeeders    bool
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type VacancyConfig struct {
	TotalOnPage       int
	SkillUpdatePolicy skill.UpdatePolicy
	SkillMergePolicy  skill.MergePolicy
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	DriverPgxPool = "pgxpool"
	DriverStdlib  = "stdlib"

	DefaultTotalOnPage = 10
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variable")
)

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return load(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_DRIVER", DriverPgxPool)
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("DB_POOL_MAX_CONNS", 0)
	v.SetDefault("DB_POOL_MIN_CONNS", 0)
	v.SetDefault("DB_RUN_MIGRATIONS", false)
	v.SetDefault("DB_RUN_SEEDERS", false)
	v.SetDefault("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)
	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", 600*time.Second)
	v.SetDefault("TOTAL_ON_PAGE", DefaultTotalOnPage)
	v.SetDefault("SKILL_UPDATE_POLICY", string(skill.UpdateGetOrCreate))
	v.SetDefault("SKILL_MERGE_POLICY", string(skill.MergeAdditive))
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

func load(v *viper.Viper) (Config, error) {
	setDefaults(v)
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		val := strings.TrimSpace(v.GetString(key))
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}
	// viper's typed getters swallow cast errors, so the E variants keep
	// malformed values visible.
	optInt := func(key string) int {
		n, err := cast.ToIntE(opt(key))
		if err != nil {
			invalid = append(invalid, key)
		}
		return n
	}
	optBool := func(key string) bool {
		b, err := cast.ToBoolE(opt(key))
		if err != nil {
			invalid = append(invalid, key)
		}
		return b
	}
	// Plain integers are seconds.
	optDuration := func(key string) time.Duration {
		raw := opt(key)
		if n, err := cast.ToIntE(raw); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := cast.ToDurationE(raw)
		if err != nil {
			invalid = append(invalid, key)
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:          req("APP_NAME"),
		Environment:      req("APP_ENV"),
		HTTPPort:         req("HTTP_PORT"),
		CORSAllowOrigins: splitList(opt("CORS_ALLOW_ORIGINS")),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST"),
		DBPort:         opt("DB_PORT"),
		DBName:         opt("DB_NAME"),
		DBUser:         opt("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE"),
		Driver:         opt("DB_DRIVER"),
		ConnectTimeout: optDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS")),
		PoolMinConns:   int32(optInt("DB_POOL_MIN_CONNS")),
		RunMigrations:  optBool("DB_RUN_MIGRATIONS"),
		RunSeeders:     optBool("DB_RUN_SEEDERS"),
	}
	if cfg.Database.Driver != DriverPgxPool && cfg.Database.Driver != DriverStdlib {
		invalid = append(invalid, "DB_DRIVER")
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     opt("JWT_ACCESS_SECRET"),
		RefreshSecret:    opt("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  optBool("REDIS_ENABLED"),
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB"),
		TTL:      optDuration("REDIS_TTL"),
	}

	cfg.Vacancy = VacancyConfig{
		TotalOnPage: optInt("TOTAL_ON_PAGE"),
	}
	if cfg.Vacancy.TotalOnPage <= 0 {
		invalid = append(invalid, "TOTAL_ON_PAGE")
	}
	up, err := skill.ParseUpdatePolicy(opt("SKILL_UPDATE_POLICY"))
	if err != nil {
		invalid = append(invalid, "SKILL_UPDATE_POLICY")
	}
	mp, err := skill.ParseMergePolicy(opt("SKILL_MERGE_POLICY"))
	if err != nil {
		invalid = append(invalid, "SKILL_MERGE_POLICY")
	}
	cfg.Vacancy.SkillUpdatePolicy = up
	cfg.Vacancy.SkillMergePolicy = mp

	cfg.Log = LogConfig{
		Level:  opt("LOG_LEVEL"),
		Format: opt("LOG_FORMAT"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DSN renders a keyword/value connection string. Empty settings are left out
// so libpq defaults apply, and values are quoted.
func (c DatabaseConfig) DSN() string {
	pairs := []struct{ key, val string }{
		{"host", strings.TrimSpace(c.DBHost)},
		{"port", strings.TrimSpace(c.DBPort)},
		{"user", strings.TrimSpace(c.DBUser)},
		{"password", c.DBPassword},
		{"dbname", strings.TrimSpace(c.DBName)},
		{"sslmode", strings.TrimSpace(c.DBSSLMode)},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.val == "" {
			continue
		}
		parts = append(parts, p.key+"='"+dsnQuoter.Replace(p.val)+"'")
	}
	return strings.Join(parts, " ")
}

var dsnQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
