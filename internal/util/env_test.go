package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TT_TEST_VALUE", "")
	assert.Equal(t, "fallback", EnvOrDefault("TT_TEST_VALUE", "fallback"))

	t.Setenv("TT_TEST_VALUE", "set")
	assert.Equal(t, "set", EnvOrDefault("TT_TEST_VALUE", "fallback"))
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("TT_TEST_DURATION", "")
	d, err := EnvDuration("TT_TEST_DURATION", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	t.Setenv("TT_TEST_DURATION", "90s")
	d, err = EnvDuration("TT_TEST_DURATION", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	t.Setenv("TT_TEST_DURATION", "soon")
	_, err = EnvDuration("TT_TEST_DURATION", time.Minute)
	assert.ErrorContains(t, err, "TT_TEST_DURATION")
}

func TestEnvBool(t *testing.T) {
	t.Setenv("TT_TEST_BOOL", "")
	b, err := EnvBool("TT_TEST_BOOL", true)
	require.NoError(t, err)
	assert.True(t, b)

	t.Setenv("TT_TEST_BOOL", "false")
	b, err = EnvBool("TT_TEST_BOOL", true)
	require.NoError(t, err)
	assert.False(t, b)

	t.Setenv("TT_TEST_BOOL", "maybe")
	_, err = EnvBool("TT_TEST_BOOL", true)
	assert.Error(t, err)
}
