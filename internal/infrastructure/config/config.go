package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// DemoMode swaps Mongo/Redis for seeded in-memory stores and disables
	// email verification, matching the demo credential list.
	DemoMode bool `env:"DEMO_MODE, default=false"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	OTPTTL          time.Duration `env:"OTP_TTL,           default=12m"`
	MFAChallengeTTL time.Duration `env:"MFA_CHALLENGE_TTL, default=5m"`

	RequireVerification bool   `env:"REQUIRE_VERIFICATION, default=true"`
	RequireApproval     bool   `env:"REQUIRE_APPROVAL,     default=false"`
	RequireEmailDomain  string `env:"REQUIRE_EMAIL_DOMAIN"`

	UploadDir string `env:"UPLOAD_DIR, default=uploads"`
	ProofKey  string `env:"PROOF_KEY"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	SMTP  SMTPConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"EMAIL_FROM"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=corpgpt_auth"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		panic(err)
	}
	return &cfg
}
