package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matsen/dimnet/internal/config"
	"github.com/matsen/dimnet/internal/network"
)

//go:embed static
var staticFiles embed.FS

const indexTemplateName = "index.html.tmpl"

// compiledIndex is parsed at init time to fail fast on template errors.
var compiledIndex = template.Must(
	template.New(indexTemplateName).ParseFS(staticFiles, "static/"+indexTemplateName),
)

type indexData struct {
	Topics    []indexTopic
	Generated string
}

type indexTopic struct {
	ID    string
	Title string
	Kinds []indexKind
	SQL   string
}

type indexKind struct {
	Topic string
	Name  string
	Label string
}

// BuildResult reports what Build produced.
type BuildResult struct {
	Dir    string   `json:"dir"`
	Index  string   `json:"index"`
	Topics []string `json:"topics"`
}

// Build regenerates the static site under the build directory: the
// bundled assets, copies of the json and sql trees, and index.html.
func Build(s config.Settings, now time.Time) (*BuildResult, error) {
	topics, err := ValidTopics(s)
	if err != nil {
		return nil, err
	}

	buildDir := s.BuildDir()
	if err := os.RemoveAll(buildDir); err != nil {
		return nil, fmt.Errorf("%w: clearing build directory: %w", network.ErrIO, err)
	}
	if err := copyStatic(buildDir); err != nil {
		return nil, fmt.Errorf("%w: copying static assets: %w", network.ErrIO, err)
	}
	for _, name := range []string{config.JSONDirName, config.SQLDirName} {
		if err := copyTree(filepath.Join(s.OutputRoot, name), filepath.Join(buildDir, name)); err != nil {
			return nil, fmt.Errorf("%w: copying %s: %w", network.ErrIO, name, err)
		}
	}

	page, err := renderIndex(topics, now)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.IndexPath(), page, 0644); err != nil {
		return nil, fmt.Errorf("%w: writing index: %w", network.ErrIO, err)
	}

	res := &BuildResult{Dir: buildDir, Index: s.IndexPath(), Topics: make([]string, 0, len(topics))}
	for _, t := range topics {
		res.Topics = append(res.Topics, t.ID)
	}
	return res, nil
}

func renderIndex(topics []Topic, now time.Time) ([]byte, error) {
	data := indexData{Generated: now.Format("2006-01-02 15:04")}
	for _, t := range topics {
		it := indexTopic{ID: t.ID, Title: t.Title, SQL: t.SQL}
		for _, name := range t.Kinds {
			k, err := network.ParseKind(name)
			if err != nil {
				return nil, err
			}
			it.Kinds = append(it.Kinds, indexKind{Topic: t.ID, Name: name, Label: k.Terminology().Link + " network"})
		}
		data.Topics = append(data.Topics, it)
	}

	var buf bytes.Buffer
	if err := compiledIndex.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering index: %w", err)
	}
	return buf.Bytes(), nil
}

// copyStatic writes the embedded assets, minus templates, into dir.
func copyStatic(dir string) error {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return err
	}
	return fs.WalkDir(sub, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(dst, 0755)
		}
		if strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		data, err := fs.ReadFile(sub, path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0644)
	})
}

// copyTree copies regular files under src into dst. A missing src is
// treated as empty.
func copyTree(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return os.MkdirAll(dst, 0755)
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
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
