package topic

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/matsen/dimnet/internal/network"
)

var keywordTemplate = template.Must(template.New("keyword").Parse(`-- AUTOMATICALLY GENERATED KEYWORD SEARCH QUERY
-- date: {{.Date}}
-- max_nodes: 400
-- min_edge_weight: 1
-- min_concept_relevance: 0.5
-- min_concept_frequency: 2

SELECT id
FROM ` + "`{{.Dataset}}.publications`" + `
WHERE
  REGEXP_CONTAINS(abstract.preferred, r'{{.Pattern}}')
  OR REGEXP_CONTAINS(title.preferred, r'{{.Pattern}}')
`))

// KeywordFilename returns the topic file name generated for a keyword:
// letters, digits and spaces only, trimmed, spaces replaced by underscores.
func KeywordFilename(keyword string) string {
	var b strings.Builder
	for _, r := range keyword {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	return strings.ReplaceAll(name, " ", "_") + Extension
}

// NewFromKeyword writes a topic file that selects publications whose title
// or abstract matches keyword, and returns its path.
func NewFromKeyword(dir, dataset, keyword string, now time.Time) (string, error) {
	name := KeywordFilename(keyword)
	if name == Extension {
		return "", fmt.Errorf("keyword %q has no usable characters", keyword)
	}

	// Quotes would end the raw string literal in the generated query.
	pattern := strings.ReplaceAll(regexp.QuoteMeta(keyword), "'", ".")

	var buf bytes.Buffer
	err := keywordTemplate.Execute(&buf, struct {
		Date    string
		Dataset string
		Pattern string
	}{
		Date:    now.Format("Jan-02-2006"),
		Dataset: dataset,
		Pattern: pattern,
	})
	if err != nil {
		return "", fmt.Errorf("rendering keyword query: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating topics directory: %w", network.ErrIO, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("%w: writing topic file: %w", network.ErrIO, err)
	}
	return path, nil
}
