package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrbanda/dataloader/internal/types"
)

func validConfig() Config {
	return Config{
		URI:      "bolt://localhost:7687",
		Username: "neo4j",
		Password: "s3cret",
	}
}

func TestConfigValidate_FillsDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "neo4j", cfg.Database)
	assert.Equal(t, 50, cfg.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.ConnectionTimeout)
}

func TestConfigValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing uri", func(c *Config) { c.URI = "" }},
		{"bad scheme", func(c *Config) { c.URI = "http://localhost:7474" }},
		{"missing username", func(c *Config) { c.Username = "" }},
		{"missing password", func(c *Config) { c.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, types.NewError(ErrConnectionFailed, ""))
		})
	}
}

func TestConfigValidate_AcceptsKnownSchemes(t *testing.T) {
	for _, uri := range []string{
		"bolt://localhost:7687",
		"bolt+s://db.example.com:7687",
		"bolt+ssc://db.example.com:7687",
		"neo4j://cluster.example.com",
		"neo4j+s://cluster.example.com",
	} {
		cfg := validConfig()
		cfg.URI = uri
		assert.NoError(t, cfg.Validate(), uri)
	}
}

func TestNewNeo4jClient_RejectsInvalidConfig(t *testing.T) {
	_, err := NewNeo4jClient(Config{}, nil)
	require.Error(t, err)
}
