package viz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matsen/dimnet/internal/graph"
	"github.com/matsen/dimnet/internal/network"
)

// WriteOptions locate the outputs of one (topic, kind) run.
type WriteOptions struct {
	// OutputPath is the JSON file to write.
	OutputPath string
	// SQLPath is the topic file the graph was generated from.
	SQLPath string
	// ProvenancePath receives a copy of SQLPath after a successful write.
	ProvenancePath string
	// BaseURL is the deep-link pattern for the item template.
	BaseURL string
}

// Result reports what Write did.
type Result struct {
	Path    string `json:"path"`
	Items   int    `json:"items"`
	Links   int    `json:"links"`
	Written bool   `json:"written"`
	SQLCopy string `json:"sql_copy,omitempty"`
}

// Write serializes g to opts.OutputPath and copies the topic SQL into the
// provenance path. A graph with no items is not written, so a previous
// run's output survives; this is reported through Result.Written and is not
// an error. The JSON file is replaced atomically.
func Write(g *graph.Graph, opts WriteOptions) (*Result, error) {
	doc := NewDocument(g, opts.BaseURL)
	res := &Result{
		Path:  opts.OutputPath,
		Items: len(doc.Network.Items),
		Links: len(doc.Network.Links),
	}
	if doc.IsEmpty() {
		return res, nil
	}

	data, err := doc.Marshal()
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(opts.OutputPath, data); err != nil {
		return nil, fmt.Errorf("%w: writing network file: %w", network.ErrIO, err)
	}
	res.Written = true

	if opts.ProvenancePath != "" && opts.SQLPath != "" {
		if err := copyFile(opts.SQLPath, opts.ProvenancePath); err != nil {
			return nil, fmt.Errorf("%w: copying topic SQL: %w", network.ErrIO, err)
		}
		res.SQLCopy = opts.ProvenancePath
	}

	return res, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if absSrc == absDst {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
