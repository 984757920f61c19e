package library

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

var (
	// ErrNotImage is returned when an item's bytes are not a supported image.
	ErrNotImage = errors.New("library: not a supported image")
	// ErrOutsideLibrary is returned for handles that escape the root.
	ErrOutsideLibrary = errors.New("library: path outside library root")
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var defaultIgnores = []string{
	".*",
	"*.tmp",
	"*.part",
}

// Options configures a Library.
type Options struct {
	Root       string
	LimitedDir string
	IgnoreFile string
}

// Library is a read-only view over an image directory.
type Library struct {
	root       string
	limitedDir string
	matcher    *ignore.GitIgnore
}

// Open prepares a library rooted at opts.Root. The root does not have to
// exist yet; listing an absent root yields no items.
func Open(opts Options) (*Library, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve library root: %w", err)
	}

	patterns := append([]string(nil), defaultIgnores...)
	if opts.IgnoreFile != "" {
		path := opts.IgnoreFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read ignore file: %w", err)
		}
		if err == nil {
			patterns = append(patterns, strings.Split(string(data), "\n")...)
		}
	}

	return &Library{
		root:       root,
		limitedDir: filepath.Clean(opts.LimitedDir),
		matcher:    ignore.CompileIgnoreLines(patterns...),
	}, nil
}

// Root returns the absolute library root.
func (l *Library) Root() string { return l.root }

// List returns every pickable image, sorted by path. With limited set only
// the limited subset is visible.
func (l *Library) List(ctx context.Context, limited bool) ([]Handle, error) {
	start := l.root
	if limited {
		if l.limitedDir == "" || l.limitedDir == "." {
			return nil, nil
		}
		start = filepath.Join(l.root, l.limitedDir)
	}

	var out []Handle
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == start {
				return fs.SkipAll
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, relErr := filepath.Rel(l.root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if l.ignored(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !imageExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if !isImageFile(path) {
			return nil
		}
		out = append(out, NewHandle(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan library: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (l *Library) ignored(rel string, dir bool) bool {
	rel = filepath.ToSlash(rel)
	if dir {
		return l.matcher.MatchesPath(rel + "/")
	}
	return l.matcher.MatchesPath(rel)
}

// resolve maps a handle back to an absolute path inside the root.
func (l *Library) resolve(h Handle) (string, error) {
	if h.Path == "" {
		return "", fmt.Errorf("%w: empty handle", ErrOutsideLibrary)
	}
	abs := filepath.Join(l.root, filepath.FromSlash(h.Path))
	rel, err := filepath.Rel(l.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideLibrary, h.Path)
	}
	return abs, nil
}

func isImageFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(f)
	return err == nil
}
