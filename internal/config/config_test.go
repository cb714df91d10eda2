package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set required environment variable
	os.Setenv("JWT_SECRET", "test-secret-key-that-is-at-least-32-characters-long")
	defer os.Unsetenv("JWT_SECRET")

	ctx := context.Background()
	cfg, err := Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Test default values
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected Server.Port to be '8080', got '%s'", cfg.Server.Port)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected Server.Host to be '0.0.0.0', got '%s'", cfg.Server.Host)
	}

	if cfg.Postgres.Host != "localhost" {
		t.Errorf("Expected Postgres.Host to be 'localhost', got '%s'", cfg.Postgres.Host)
	}

	if cfg.Redis.Host != "localhost" {
		t.Errorf("Expected Redis.Host to be 'localhost', got '%s'", cfg.Redis.Host)
	}

	if cfg.JWT.AccessTokenExpiry.Duration != 30*time.Minute {
		t.Errorf("Expected JWT.AccessTokenExpiry to be 30m, got %v", cfg.JWT.AccessTokenExpiry.Duration)
	}

	if cfg.JWT.RefreshTokenExpiry.Duration != 14*24*time.Hour {
		t.Errorf("Expected JWT.RefreshTokenExpiry to be 14d, got %v", cfg.JWT.RefreshTokenExpiry.Duration)
	}

	if cfg.Cookie.Secure {
		t.Error("Expected Cookie.Secure to default to false")
	}

	if cfg.Cookie.SameSite != "Lax" {
		t.Errorf("Expected Cookie.SameSite to be 'Lax', got '%s'", cfg.Cookie.SameSite)
	}

	if cfg.AI.Workers != 2 {
		t.Errorf("Expected AI.Workers to be 2, got %d", cfg.AI.Workers)
	}

	if cfg.AI.Timeout.Duration != 120*time.Second {
		t.Errorf("Expected AI.Timeout to be 120s, got %v", cfg.AI.Timeout.Duration)
	}

	if cfg.OAuth.FrontendURL != "http://localhost:5173" {
		t.Errorf("Expected OAuth.FrontendURL default, got '%s'", cfg.OAuth.FrontendURL)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be 'development', got '%s'", cfg.Env)
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("Expected CORS.AllowedOrigins to have at least one value")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Expected error when JWT_SECRET is missing")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "too-short")
	defer os.Unsetenv("JWT_SECRET")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Expected error when JWT_SECRET is shorter than 32 characters")
	}
}

func TestDuration_Days(t *testing.T) {
	var d Duration
	if err := d.EnvDecode(context.Background(), "14d"); err != nil {
		t.Fatalf("Failed to decode '14d': %v", err)
	}
	if d.Duration != 14*24*time.Hour {
		t.Errorf("Expected 14d to decode to 336h, got %v", d.Duration)
	}

	if err := d.EnvDecode(context.Background(), "45m"); err != nil {
		t.Fatalf("Failed to decode '45m': %v", err)
	}
	if d.Duration != 45*time.Minute {
		t.Errorf("Expected 45m, got %v", d.Duration)
	}

	if err := d.EnvDecode(context.Background(), "xd"); err == nil {
		t.Error("Expected error for invalid day count")
	}
}
