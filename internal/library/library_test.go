package library

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	red := pngBytes(t, color.RGBA{R: 255, A: 255})
	writeFile(t, root, "beach.png", red)
	writeFile(t, root, "Shared/party.png", red)
	writeFile(t, root, "trips/tokyo.PNG", red)
	writeFile(t, root, "notes.txt", []byte("hello"))
	writeFile(t, root, "fake.png", []byte("not really a png"))
	writeFile(t, root, ".hidden.png", red)
	writeFile(t, root, "drafts/wip.png", red)
	writeFile(t, root, ".photoignore", []byte("drafts/\n"))
	return root
}

func paths(hs []Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Path
	}
	return out
}

func TestListFiltersNonImagesAndIgnored(t *testing.T) {
	root := fixture(t)
	lib, err := Open(Options{Root: root, LimitedDir: "Shared", IgnoreFile: ".photoignore"})
	require.NoError(t, err)

	items, err := lib.List(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shared/party.png", "beach.png", "trips/tokyo.PNG"}, paths(items))
}

func TestListLimitedShowsSubsetOnly(t *testing.T) {
	root := fixture(t)
	lib, err := Open(Options{Root: root, LimitedDir: "Shared"})
	require.NoError(t, err)

	items, err := lib.List(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shared/party.png"}, paths(items))
}

func TestListLimitedWithoutDirIsEmpty(t *testing.T) {
	lib, err := Open(Options{Root: fixture(t)})
	require.NoError(t, err)

	items, err := lib.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListMissingRoot(t *testing.T) {
	lib, err := Open(Options{Root: filepath.Join(t.TempDir(), "nope")})
	require.NoError(t, err)

	items, err := lib.List(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHandleIsStable(t *testing.T) {
	a := NewHandle("trips/tokyo.png")
	b := NewHandle(filepath.Join("trips", ".", "tokyo.png"))
	assert.Equal(t, a, b)
	assert.Equal(t, "tokyo.png", a.Name())
	assert.NotEqual(t, a.ID, NewHandle("beach.png").ID)
}

func TestLoad(t *testing.T) {
	root := fixture(t)
	writeFile(t, root, "empty.png", nil)
	lib, err := Open(Options{Root: root})
	require.NoError(t, err)
	ctx := context.Background()

	data, err := lib.Load(ctx, NewHandle("beach.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data[:4])

	data, err = lib.Load(ctx, NewHandle("empty.png"))
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = lib.Load(ctx, NewHandle("fake.png"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = lib.Load(ctx, NewHandle("missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = lib.Load(ctx, Handle{Path: "../outside.png"})
	assert.ErrorIs(t, err, ErrOutsideLibrary)
}

func TestLoadCancelled(t *testing.T) {
	lib, err := Open(Options{Root: fixture(t)})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = lib.Load(ctx, NewHandle("beach.png"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilter(t *testing.T) {
	items := []Handle{
		NewHandle("beach.png"),
		NewHandle("beech.png"),
		NewHandle("trips/tokyo.png"),
		NewHandle("Shared/beach-party.png"),
	}

	assert.Equal(t, items, Filter(items, "  "))
	assert.Equal(t, []string{"beach.png", "Shared/beach-party.png", "beech.png"}, paths(Filter(items, "beach")))
	assert.Equal(t, []string{"trips/tokyo.png"}, paths(Filter(items, "TOKYO")))
	assert.Empty(t, Filter(items, "zzzzzzzz"))
}

func TestWatchReportsNewFiles(t *testing.T) {
	root := t.TempDir()
	lib, err := Open(Options{Root: root})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var changes int32
	done := make(chan error, 1)
	go func() {
		done <- lib.Watch(ctx, func() { atomic.AddInt32(&changes, 1) })
	}()

	// give the watcher time to register the root
	time.Sleep(100 * time.Millisecond)
	writeFile(t, root, "new.png", pngBytes(t, color.White))

	require.Eventually(t, func() bool { return atomic.LoadInt32(&changes) > 0 }, 3*time.Second, 20*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestWatchFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	lib, err := Open(Options{Root: root})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var changes int32
	done := make(chan error, 1)
	go func() {
		done <- lib.Watch(ctx, func() { atomic.AddInt32(&changes, 1) })
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.Mkdir(filepath.Join(root, "albums"), 0o755))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&changes) > 0 }, 3*time.Second, 20*time.Millisecond)

	// only visible if the new directory is watched too
	seen := atomic.LoadInt32(&changes)
	writeFile(t, root, "albums/summer.png", pngBytes(t, color.White))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&changes) > seen }, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
