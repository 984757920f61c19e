package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/photopicker/internal/photos"
)

type env struct {
	home    string
	config  string
	library string
}

func setup(t *testing.T) env {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PHOTOPICKER_CONFIG", "")

	lib := filepath.Join(home, "photos")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	for _, rel := range []string{"beach.png", "tokyo.png", "Shared/party.png"} {
		path := filepath.Join(lib, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	}
	return env{home: home, config: filepath.Join(home, "photopicker.toml"), library: lib}
}

func execute(t *testing.T, e env, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.config, "--library", e.library}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decide(t *testing.T, e env, status photos.AuthorizationStatus) {
	t.Helper()
	app, err := NewApp(context.Background(), AppOptions{ConfigPath: e.config, LibraryRoot: e.library})
	require.NoError(t, err)
	defer app.Close()
	require.NoError(t, app.Consents.Set(app.Ctx(), app.Config.Permission.Scope, status.String()))
}

func TestNewAppCreatesConfigAndDatabase(t *testing.T) {
	e := setup(t)
	app, err := NewApp(context.Background(), AppOptions{ConfigPath: e.config, LibraryRoot: e.library})
	require.NoError(t, err)
	defer app.Close()

	assert.FileExists(t, e.config)
	assert.FileExists(t, app.Config.Database.Path)
	assert.Equal(t, e.library, app.Config.Library.Root)

	// the override is not written back
	data, err := os.ReadFile(e.config)
	require.NoError(t, err)
	assert.NotContains(t, string(data), e.library)
}

func TestStatusCommand(t *testing.T) {
	e := setup(t)
	out, err := execute(t, e, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not-determined")

	decide(t, e, photos.StatusLimited)
	out, err = execute(t, e, "status", "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "Photo access:")
	assert.Contains(t, out, "limited")
	assert.Contains(t, out, "History:")
}

func TestResetCommand(t *testing.T) {
	e := setup(t)
	decide(t, e, photos.StatusDenied)

	out, err := execute(t, e, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "reset")

	out, err = execute(t, e, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not-determined")
}

func TestLibraryCommandNeedsAccess(t *testing.T) {
	e := setup(t)
	_, err := execute(t, e, "library")
	assert.ErrorContains(t, err, "photo access is not-determined")
}

func TestLibraryCommandListsByAccessLevel(t *testing.T) {
	e := setup(t)
	decide(t, e, photos.StatusAuthorized)
	out, err := execute(t, e, "library")
	require.NoError(t, err)
	assert.Equal(t, "Shared/party.png\nbeach.png\ntokyo.png\n", out)

	out, err = execute(t, e, "library", "--filter", "tok")
	require.NoError(t, err)
	assert.Equal(t, "tokyo.png\n", out)

	_, err = execute(t, e, "reset")
	require.NoError(t, err)
	decide(t, e, photos.StatusLimited)
	out, err = execute(t, e, "library")
	require.NoError(t, err)
	assert.Equal(t, "Shared/party.png\n", out)
}
