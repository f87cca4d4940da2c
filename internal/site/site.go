// Package site manages the output tree and builds the static site that
// lists the generated networks.
package site

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matsen/dimnet/internal/config"
	"github.com/matsen/dimnet/internal/logger"
	"github.com/matsen/dimnet/internal/network"
	"github.com/matsen/dimnet/internal/topic"
)

// Topic is a topic with a query and at least one generated network.
type Topic struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Kinds []string `json:"kinds"`
	SQL   string   `json:"-"`
}

// Setup creates the per-kind network directories and the query directory.
func Setup(s config.Settings) error {
	dirs := []string{s.SQLDir()}
	for _, k := range network.AllKinds {
		dirs = append(dirs, s.JSONDir(k))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: creating %s: %w", network.ErrIO, dir, err)
		}
	}
	return nil
}

// Prune removes network files whose topic has no query in the SQL
// directory, and returns the removed paths.
func Prune(s config.Settings) ([]string, error) {
	var removed []string
	for _, k := range network.AllKinds {
		entries, err := os.ReadDir(s.JSONDir(k))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("%w: reading %s: %w", network.ErrIO, s.JSONDir(k), err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			id := strings.TrimSuffix(e.Name(), ".json")
			if fileExists(s.SQLPath(id)) {
				continue
			}
			path := filepath.Join(s.JSONDir(k), e.Name())
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("%w: removing %s: %w", network.ErrIO, path, err)
			}
			logger.Info("removed network without topic", "path", path)
			removed = append(removed, path)
		}
	}
	return removed, nil
}

// ValidTopics lists, sorted by identifier, the topics that have a query
// and at least one network.
func ValidTopics(s config.Settings) ([]Topic, error) {
	entries, err := os.ReadDir(s.SQLDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", network.ErrIO, s.SQLDir(), err)
	}

	var topics []Topic
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), topic.Extension) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), topic.Extension)

		var kinds []string
		for _, k := range network.AllKinds {
			if fileExists(s.JSONPath(k, id)) {
				kinds = append(kinds, k.String())
			}
		}
		if len(kinds) == 0 {
			continue
		}

		sql, err := os.ReadFile(s.SQLPath(id))
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", network.ErrIO, s.SQLPath(id), err)
		}
		topics = append(topics, Topic{ID: id, Title: topic.Title(id), Kinds: kinds, SQL: string(sql)})
	}

	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
