package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, cwd string, env map[string]string) *Resolver {
	t.Helper()
	s, err := Defaults()
	require.NoError(t, err)
	return &Resolver{
		settings: s,
		getwd:    func() (string, error) { return cwd, nil },
		getenv:   func(k string) string { return env[k] },
	}
}

func TestResolveProjectFromWorkingDirectory(t *testing.T) {
	for _, dir := range []string{"/home/dev/myproj", "/srv/a/b/c-d", "/tmp/x.y"} {
		r := newTestResolver(t, dir, nil)
		inv, err := r.Resolve(Overrides{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Base(dir), inv.ProjectName, "dir %s", dir)
	}
}

func TestResolveDefaults(t *testing.T) {
	r := newTestResolver(t, "/home/dev/myproj", nil)

	inv, err := r.Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, Invocation{
		ProjectName: "myproj",
		ServiceName: "main",
		ComposeFile: "./docker-compose/docker-compose.yml",
	}, inv)
}

func TestResolveOverrides(t *testing.T) {
	r := newTestResolver(t, "/home/dev/myproj", map[string]string{
		ComposePathEnv: "/etc/compose.yml",
	})

	inv, err := r.Resolve(Overrides{Project: "other", Service: "worker"})
	require.NoError(t, err)
	assert.Equal(t, "other", inv.ProjectName)
	assert.Equal(t, "worker", inv.ServiceName)
	assert.Equal(t, "/etc/compose.yml", inv.ComposeFile)
}

func TestResolveWorkingDirectoryError(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)
	r := &Resolver{
		settings: s,
		getwd:    func() (string, error) { return "", errors.New("gone") },
		getenv:   func(string) string { return "" },
	}

	_, err = r.Resolve(Overrides{})
	require.Error(t, err)

	// an explicit project never needs the working directory
	inv, err := r.Resolve(Overrides{Project: "p"})
	require.NoError(t, err)
	assert.Equal(t, "p", inv.ProjectName)
}

func TestValidateMissingComposeFile(t *testing.T) {
	r := newTestResolver(t, "/x", nil)
	missing := filepath.Join(t.TempDir(), "nope.yml")

	err := r.Validate(Invocation{ComposeFile: missing})

	var cfgErr *ConfigurationMissingError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, missing, cfgErr.Path)
	assert.True(t, strings.Contains(err.Error(), ComposePathEnv), "diagnostic should name the override variable")
}

func TestValidateExistingComposeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0644))

	r := newTestResolver(t, "/x", nil)
	assert.NoError(t, r.Validate(Invocation{ComposeFile: path}))
}
