package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/verdict-dev/verdict/internal/language"
	"github.com/verdict-dev/verdict/internal/review"
)

// DefaultMaxFileBytes is the per-file size limit when Options leaves it zero.
const DefaultMaxFileBytes = 1 << 20 // 1MB

// defaultExcludes are directory names never worth reviewing.
var defaultExcludes = []string{
	".git", "node_modules", "vendor", "__pycache__", ".venv", "dist", "build",
}

// Options filters what Load picks up.
type Options struct {
	// Include restricts loading to paths matching any of these globs.
	// Empty means everything.
	Include []string
	// Exclude drops paths matching any of these globs.
	Exclude []string
	// MaxFileBytes skips files larger than this; zero selects the default.
	MaxFileBytes int64
	// DefaultLanguage is assumed for files with an unknown extension.
	DefaultLanguage language.Language
}

// Load reads the given paths (files or directories) into a review batch.
// Results are sorted by filename and deduplicated; a path that does not
// exist is an error, while unreadable, binary, and oversized files inside
// a directory walk are silently skipped.
func Load(paths []string, opts Options) ([]review.SourceFile, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths given")
	}
	maxBytes := opts.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}

	seen := make(map[string]bool)
	var files []review.SourceFile

	add := func(path, name string, explicit bool) error {
		if seen[name] {
			return nil
		}
		sf, ok, err := readFile(path, name, maxBytes, opts)
		if err != nil {
			if explicit {
				return err
			}
			return nil // skip unreadable files found by the walk
		}
		if !ok {
			if explicit {
				return fmt.Errorf("%s: not a reviewable text file", path)
			}
			return nil
		}
		seen[name] = true
		files = append(files, sf)
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if err := add(p, filepath.ToSlash(p), true); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if excludedDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			rel, relErr := filepath.Rel(p, path)
			if relErr != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)
			if len(opts.Include) > 0 && !MatchesAny(rel, opts.Include) {
				return nil
			}
			if MatchesAny(rel, opts.Exclude) {
				return nil
			}
			return add(path, rel, false)
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

// readFile loads one file, reporting ok=false for binary or oversized
// content.
func readFile(path, name string, maxBytes int64, opts Options) (review.SourceFile, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return review.SourceFile{}, false, err
	}
	if info.Size() > maxBytes {
		return review.SourceFile{}, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return review.SourceFile{}, false, err
	}
	if !utf8.Valid(data) {
		return review.SourceFile{}, false, nil
	}

	lang := opts.DefaultLanguage
	if lang == "" {
		lang = language.Python
	}
	return review.SourceFile{
		Filename: name,
		Content:  string(data),
		Language: language.ClassifyDefault(name, lang),
	}, true, nil
}

func excludedDir(name string) bool {
	for _, d := range defaultExcludes {
		if name == d {
			return true
		}
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// MatchesAny reports whether path matches any of the glob patterns.
// A "**/" prefix also matches against the path's basename.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
