package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapDefaults(t *testing.T) {
	cfg, err := ParseMap(map[string]string{})
	require.NoError(t, err)

	assert.Empty(t, cfg.Data)
	assert.Equal(t, "none", cfg.Sanitize)
	assert.Empty(t, cfg.IncludeDir)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.TrimOutput)
}

func TestParseMapValues(t *testing.T) {
	cfg, err := ParseMap(map[string]string{
		"TAGVARS_DATA":        "site.yaml,page.json",
		"TAGVARS_SANITIZE":    "ugc",
		"TAGVARS_INCLUDE_DIR": "partials",
		"TAGVARS_DEBUG":       "true",
		"TAGVARS_TRIM":        "1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"site.yaml", "page.json"}, cfg.Data)
	assert.Equal(t, "ugc", cfg.Sanitize)
	assert.Equal(t, "partials", cfg.IncludeDir)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.TrimOutput)
}

func TestParseMapInvalidBool(t *testing.T) {
	_, err := ParseMap(map[string]string{"TAGVARS_DEBUG": "maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestParseEnv(t *testing.T) {
	t.Setenv("TAGVARS_SANITIZE", "strict")

	cfg, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, "strict", cfg.Sanitize)
}
