package appinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironmentNormalization(t *testing.T) {
	cases := map[string]string{
		"prod":       "production",
		"Production": "production",
		"stage":      "staging",
		"TEST":       "test",
		"dev":        "development",
		"":           "development",
		"qa":         "qa",
	}

	for input, want := range cases {
		t.Setenv("GO_ENV", "")
		t.Setenv("ENVIRONMENT", input)
		assert.Equal(t, want, GetEnvironment(), "ENVIRONMENT=%q", input)
	}
}

func TestGetEnvironmentFallsBackToGoEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("GO_ENV", "staging")
	assert.Equal(t, "staging", GetEnvironment())
}

func TestGetVersionPrefersEnvironment(t *testing.T) {
	t.Setenv("VERSION", "1.4.2")
	assert.Equal(t, "1.4.2", GetVersion())
}
