package config

import (
	"testing"
	"time"

	"housematch/internal/model"
)

func validConfig() *Config {
	return &Config{
		Session: SessionConfig{Backend: "memory"},
		Match: MatchConfig{
			WeightPrice:    0.35,
			WeightArea:     0.25,
			WeightBedrooms: 0.25,
			WeightTags:     0.15,
			MaxDeviation:   1.0,
			BedroomPenalty: 0.25,
			MaxReasons:     3,
		},
		Conversation: ConversationConfig{
			MaxRetries:  3,
			IdleTimeout: 30 * time.Minute,
		},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"weights not summing to one", func(c *Config) { c.Match.WeightPrice = 0.9 }},
		{"negative weight", func(c *Config) {
			c.Match.WeightPrice = -0.1
			c.Match.WeightArea = 0.7
		}},
		{"zero max deviation", func(c *Config) { c.Match.MaxDeviation = 0 }},
		{"bedroom penalty above one", func(c *Config) { c.Match.BedroomPenalty = 1.5 }},
		{"zero max reasons", func(c *Config) { c.Match.MaxReasons = 0 }},
		{"zero retries", func(c *Config) { c.Conversation.MaxRetries = 0 }},
		{"zero idle timeout", func(c *Config) { c.Conversation.IdleTimeout = 0 }},
		{"unknown session backend", func(c *Config) { c.Session.Backend = "etcd" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !model.IsConfigurationError(err) {
				t.Errorf("expected ConfigurationError, got %T", err)
			}
		})
	}
}

func TestGetPostgreSQLDSNPrefersExplicit(t *testing.T) {
	cfg := validConfig()
	cfg.PostgreSQL.DSN = "postgres://u:p@db/houses"

	if got := cfg.GetPostgreSQLDSN(); got != "postgres://u:p@db/houses" {
		t.Errorf("explicit DSN not used: %q", got)
	}
}

func TestGetPostgreSQLDSNAssembled(t *testing.T) {
	cfg := validConfig()
	cfg.PostgreSQL = PostgreSQLConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", Database: "houses", SSLMode: "disable",
	}

	want := "host=localhost port=5432 user=postgres password=secret dbname=houses sslmode=disable"
	if got := cfg.GetPostgreSQLDSN(); got != want {
		t.Errorf("assembled DSN = %q, want %q", got, want)
	}
}
