package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	AppName   string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Login      LoginConfig
	Password   PasswordConfig
	OTP        OTPConfig
	Mail       MailConfig
	CORS       CORSConfig
	Log        LogConfig
	Simulation SimulationConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig carries the token signing parameters. Algorithm is one of
// HS256, HS384 or HS512.
type JWTConfig struct {
	SecretKey     string
	Algorithm     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// LoginConfig governs the failed-attempt and blocking policy.
type LoginConfig struct {
	FailingAttemptsAllowed int
	BlockDuration          time.Duration
}

// PasswordConfig governs credential validity windows and complexity.
type PasswordConfig struct {
	MinimumLength int
	OTPTTL        time.Duration
	PasswordTTL   time.Duration
}

// OTPConfig configures the one-time-password mail.
type OTPConfig struct {
	TemplateName string
	MailFrom     string
	URL          string
}

// MailConfig configures the SMTP collaborator. Debug allows registration
// to continue when mail delivery fails.
type MailConfig struct {
	Host  string
	Port  int
	User  string
	Pass  string
	Debug bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SimulationConfig tunes the background simulation runner.
type SimulationConfig struct {
	Workers    int
	MaxRetries int
	ResultTTL  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.AppName = v.GetString("APP_NAME")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		SecretKey:     v.GetString("JWT_SECRET_KEY"),
		Algorithm:     v.GetString("JWT_ALGORITHM"),
		AccessExpiry:  time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_SECONDS")) * time.Second,
		RefreshExpiry: time.Duration(v.GetInt("JWT_REFRESH_TOKEN_EXPIRY_DAYS")) * 24 * time.Hour,
	}

	cfg.Login = LoginConfig{
		FailingAttemptsAllowed: v.GetInt("LOGIN_FAILING_ATTEMPTS_ALLOWED"),
		BlockDuration:          time.Duration(v.GetInt("LOGIN_BLOCK_MINUTES")) * time.Minute,
	}

	cfg.Password = PasswordConfig{
		MinimumLength: v.GetInt("PASSWORD_MINIMUM_LENGTH"),
		OTPTTL:        parseDuration(v.GetString("OTP_TTL"), 24*time.Hour),
		PasswordTTL:   parseDuration(v.GetString("PASSWORD_TTL"), 90*24*time.Hour),
	}

	cfg.OTP = OTPConfig{
		TemplateName: v.GetString("OTP_TEMPLATE_NAME"),
		MailFrom:     v.GetString("OTP_MAIL_FROM"),
		URL:          v.GetString("OTP_URL"),
	}

	cfg.Mail = MailConfig{
		Host:  v.GetString("MAIL_HOST"),
		Port:  v.GetInt("MAIL_PORT"),
		User:  v.GetString("MAIL_USER"),
		Pass:  v.GetString("MAIL_PASSWORD"),
		Debug: v.GetBool("MAIL_DEBUG"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Simulation = SimulationConfig{
		Workers:    v.GetInt("SIMULATION_WORKERS"),
		MaxRetries: v.GetInt("SIMULATION_MAX_RETRIES"),
		ResultTTL:  parseDuration(v.GetString("SIMULATION_RESULT_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("APP_NAME", "fishing-api")
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fishing")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET_KEY", "dev_secret")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY_SECONDS", 900)
	v.SetDefault("JWT_REFRESH_TOKEN_EXPIRY_DAYS", 30)

	v.SetDefault("LOGIN_FAILING_ATTEMPTS_ALLOWED", 3)
	v.SetDefault("LOGIN_BLOCK_MINUTES", 10)

	v.SetDefault("PASSWORD_MINIMUM_LENGTH", 8)
	v.SetDefault("OTP_TTL", "24h")
	v.SetDefault("PASSWORD_TTL", "2160h")

	v.SetDefault("OTP_TEMPLATE_NAME", "otp")
	v.SetDefault("OTP_MAIL_FROM", "noreply@localhost")
	v.SetDefault("OTP_URL", "http://localhost:8080/api/v1/auth/acknowledge")

	v.SetDefault("MAIL_HOST", "localhost")
	v.SetDefault("MAIL_PORT", 25)
	v.SetDefault("MAIL_USER", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_DEBUG", true)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SIMULATION_WORKERS", 1)
	v.SetDefault("SIMULATION_MAX_RETRIES", 100)
	v.SetDefault("SIMULATION_RESULT_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
