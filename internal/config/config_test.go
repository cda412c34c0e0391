package config_test

import (
	"testing"

	"github.com/prepmark/prepmark-scoring/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.LogLevel != "info" || cfg.LogPretty {
		t.Fatalf("log defaults = %q/%v, want info/false", cfg.LogLevel, cfg.LogPretty)
	}
	if len(cfg.Operators) != 0 {
		t.Fatalf("operators default = %v, want none", cfg.Operators)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SCORING_HTTP_ADDR", ":9090")
	t.Setenv("SCORING_DB_DRIVER", "postgres")
	t.Setenv("SCORING_DB_DSN", "postgres://db.local:5432/scoring")
	t.Setenv("SCORING_TOLERANCE", "0.01")
	t.Setenv("SCORING_PARALLELISM", "4")
	t.Setenv("SCORING_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SCORING_LOG_LEVEL", "debug")
	t.Setenv("SCORING_LOG_PRETTY", "true")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.DBDriver != "postgres" || cfg.DBDSN != "postgres://db.local:5432/scoring" {
		t.Fatalf("server/db overrides not applied: %+v", cfg)
	}
	if cfg.Tolerance != 0.01 || cfg.Parallelism != 4 {
		t.Fatalf("engine overrides not applied: tol=%v par=%d", cfg.Tolerance, cfg.Parallelism)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example" || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != "debug" || !cfg.LogPretty {
		t.Fatalf("log overrides not applied: %q/%v", cfg.LogLevel, cfg.LogPretty)
	}
}

func TestFromEnv_Operators(t *testing.T) {
	t.Setenv("SCORING_OPERATORS", "alice:grader:$2a$10$hashA, bob:admin:$2a$10$hashB")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if len(cfg.Operators) != 2 {
		t.Fatalf("got %d operators, want 2", len(cfg.Operators))
	}
	if cfg.Operators[0].Name != "alice" || cfg.Operators[0].Role != "grader" || cfg.Operators[0].PassHash != "$2a$10$hashA" {
		t.Fatalf("operator 0 = %+v", cfg.Operators[0])
	}
	if cfg.Operators[1].Name != "bob" || cfg.Operators[1].Role != "admin" {
		t.Fatalf("operator 1 = %+v", cfg.Operators[1])
	}
}

func TestFromEnv_RejectsMalformedOperator(t *testing.T) {
	t.Setenv("SCORING_OPERATORS", "alice:grader")

	if _, err := config.FromEnv(); err == nil {
		t.Fatalf("expected error for operator entry without a hash")
	}
}
