package topic

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/dimnet/internal/network"
)

// Extension is the file extension of topic files.
const Extension = ".sql"

// ID returns the topic identifier for a topic file path: the base name
// without its extension, with spaces replaced by underscores.
func ID(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, Extension)
	return strings.ReplaceAll(base, " ", "_")
}

// Title returns a display title for a topic identifier.
func Title(id string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(id)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Input is the result of resolving a command-line path to topic files.
type Input struct {
	Files []string
	// Explicit is true when the path named a single topic file rather
	// than a directory.
	Explicit bool
}

// Discover resolves path to topic files. A directory yields all of its
// .sql files (not recursive), sorted by name.
func Discover(path string) (*Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", network.ErrIO, err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(path, Extension) {
			return nil, fmt.Errorf("%w: %s is not a %s file", network.ErrIO, path, Extension)
		}
		return &Input{Files: []string{path}, Explicit: true}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading topic directory: %w", network.ErrIO, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)

	return &Input{Files: files}, nil
}
