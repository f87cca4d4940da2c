package backend

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/dimnet/internal/network"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading snapshot
// lines (4MB per line; concept lists can be long).
const MaxJSONLLineCapacity = 4 * 1024 * 1024

// Publication is one line of a snapshot export.
type Publication struct {
	ID           string         `json:"id"`
	Year         int            `json:"year"`
	Title        string         `json:"title"`
	Abstract     string         `json:"abstract,omitempty"`
	ResearchOrgs []Organization `json:"research_orgs,omitempty"`
	Concepts     []Concept      `json:"concepts,omitempty"`
}

// Organization is a GRID research organization.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Concept is an extracted concept with its relevance score.
type Concept struct {
	Concept   string  `json:"concept"`
	Relevance float64 `json:"relevance"`
}

// ReadSnapshot reads all publications from a JSONL file.
func ReadSnapshot(path string) ([]Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening snapshot: %w", network.ErrIO, err)
	}
	defer f.Close()

	var pubs []Publication
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var pub Publication
		if err := json.Unmarshal(line, &pub); err != nil {
			return nil, fmt.Errorf("%w: parsing line %d: %w", network.ErrMalformedRow, lineNum, err)
		}
		if pub.ID == "" {
			return nil, fmt.Errorf("%w: line %d: publication without id", network.ErrMalformedRow, lineNum)
		}
		pubs = append(pubs, pub)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading snapshot: %w", network.ErrIO, err)
	}

	return pubs, nil
}
