package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Cookie   CookieConfig   `env:",prefix=COOKIE_"`
	OAuth    OAuthConfig    `env:",prefix=OAUTH_"`
	AI       AIConfig       `env:",prefix=AI_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host          string `env:"HOST,default=localhost"`
	Port          string `env:"PORT,default=5432"`
	User          string `env:"USER,default=sikboo"`
	Password      string `env:"PASSWORD,default=sikboo_password"`
	DBName        string `env:"DB,default=sikboo_db"`
	SSLMode       string `env:"SSLMODE,default=disable"`
	MigrationsURL string `env:"MIGRATIONS_URL,default=file://migrations"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	Secret             string   `env:"SECRET,required"`
	AccessTokenExpiry  Duration `env:"ACCESS_TOKEN_EXPIRY,default=30m"`
	RefreshTokenExpiry Duration `env:"REFRESH_TOKEN_EXPIRY,default=14d"`
}

// CookieConfig controls the transport attributes of the ACCESS/REFRESH cookies.
// Split-domain deployments need Secure=true and SameSite=None.
type CookieConfig struct {
	Secure   bool   `env:"SECURE,default=false"`
	SameSite string `env:"SAMESITE,default=Lax"`
}

type OAuthConfig struct {
	FrontendURL string         `env:"FRONTEND_URL,default=http://localhost:5173"`
	Google      ProviderConfig `env:",prefix=GOOGLE_"`
	Kakao       ProviderConfig `env:",prefix=KAKAO_"`
	Naver       ProviderConfig `env:",prefix=NAVER_"`
}

type ProviderConfig struct {
	ClientID     string `env:"CLIENT_ID,default="`
	ClientSecret string `env:"CLIENT_SECRET,default="`
	RedirectURL  string `env:"REDIRECT_URL,default="`
}

type AIConfig struct {
	BaseURL string   `env:"BASE_URL,default=http://localhost:11434"`
	Model   string   `env:"MODEL,default=qwen3"`
	Token   string   `env:"TOKEN,default="`
	Timeout Duration `env:"TIMEOUT,default=120s"`
	Workers int      `env:"WORKERS,default=2"`
}

type SecurityConfig struct {
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:5173"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate JWT secret length
	if len(config.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if config.AI.Workers < 1 {
		return nil, fmt.Errorf("AI_WORKERS must be at least 1")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
