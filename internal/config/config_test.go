package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDir_PrefersLPASSHome(t *testing.T) {
	t.Setenv("LPASS_HOME", "/tmp/explicit-home")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	dir, err := ConfigDir()
	require.NoError(t, err)
	require.Equal(t, "/tmp/explicit-home", dir)
}

func TestConfigDir_FallsBackToXDG(t *testing.T) {
	t.Setenv("LPASS_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	dir, err := ConfigDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/xdg", "lpass"), dir)
}

func TestAgentTimeout_DefaultsWhenUnset(t *testing.T) {
	t.Setenv("LPASS_AGENT_TIMEOUT", "")
	require.Equal(t, DefaultAgentTimeout, AgentTimeout())
}

func TestAgentTimeout_ParsesSeconds(t *testing.T) {
	t.Setenv("LPASS_AGENT_TIMEOUT", "120")
	require.Equal(t, 120e9, float64(AgentTimeout()))
}

func TestAgentTimeout_InvalidValueDefaults(t *testing.T) {
	t.Setenv("LPASS_AGENT_TIMEOUT", "not-a-number")
	require.Equal(t, DefaultAgentTimeout, AgentTimeout())
}

func TestAgentDisabled(t *testing.T) {
	t.Setenv("LPASS_AGENT_DISABLE", "1")
	require.True(t, AgentDisabled())

	t.Setenv("LPASS_AGENT_DISABLE", "0")
	require.False(t, AgentDisabled())
}

func TestNew_BuildsEnvironment(t *testing.T) {
	t.Setenv("LPASS_HOME", t.TempDir())

	env, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, env.Logger)
	require.NotNil(t, env.Clock)
	require.NotEmpty(t, env.ConfigDir)
}

func TestEnsureDir_CreatesWithOwnerOnlyPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
