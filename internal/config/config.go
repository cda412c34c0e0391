package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Operator is a service account allowed to call the API. Credentials live
// in configuration; there is no user store.
type Operator struct {
	Name     string
	Role     string // grader | auditor | admin
	PassHash string // bcrypt
}

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthSecret string
	Operators  []Operator

	CORSOrigins []string

	// Tolerance overrides the engine default when > 0.
	Tolerance   float64
	Parallelism int

	LogLevel  string
	LogPretty bool
}

// FromEnv reads SCORING_* variables, with an optional .env file for local
// runs. Operators are a comma list of name:role:bcrypt-hash triples; with
// none configured, login always fails.
func FromEnv() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCORING")
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("auth_secret", "supersecret-dev-key")
	v.SetDefault("operators", "")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("tolerance", 0.0)
	v.SetDefault("parallelism", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read .env: %w", err)
		}
	}

	ops, err := parseOperators(v.GetString("operators"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPAddr:    v.GetString("http_addr"),
		DBDriver:    v.GetString("db_driver"),
		DBDSN:       v.GetString("db_dsn"),
		AuthSecret:  v.GetString("auth_secret"),
		Operators:   ops,
		CORSOrigins: splitCSV(v.GetString("cors_origins")),
		Tolerance:   v.GetFloat64("tolerance"),
		Parallelism: v.GetInt("parallelism"),
		LogLevel:    v.GetString("log_level"),
		LogPretty:   v.GetBool("log_pretty"),
	}, nil
}

func parseOperators(s string) ([]Operator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []Operator
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("operator %q: want name:role:bcrypt-hash", entry)
		}
		out = append(out, Operator{Name: parts[0], Role: parts[1], PassHash: parts[2]})
	}
	return out, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
