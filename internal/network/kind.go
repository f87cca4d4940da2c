// Package network holds the vocabulary shared by the extraction pipeline:
// network kinds, typed query parameters, raw result rows and the error taxonomy.
package network

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported graph shapes.
type Kind int

const (
	// Organizations is the organization collaboration network.
	Organizations Kind = iota + 1
	// Concepts is the concept co-occurrence network.
	Concepts
)

// AllKinds lists the supported kinds in their default generation order.
var AllKinds = []Kind{Organizations, Concepts}

// kindAliases maps accepted network_types values to kinds.
// "collab_orgs" is the name older topic files use for organizations.
var kindAliases = map[string]Kind{
	"organizations": Organizations,
	"collab_orgs":   Organizations,
	"concepts":      Concepts,
}

// String returns the canonical name, which is also the output directory name.
func (k Kind) String() string {
	switch k {
	case Organizations:
		return "organizations"
	case Concepts:
		return "concepts"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k == Organizations || k == Concepts
}

// ParseKind resolves a network_types entry to a Kind.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return 0, &KindError{Name: s}
}

// KindError reports a network_types entry that names no supported kind.
type KindError struct {
	Name string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%v: %q (valid: %s)", ErrUnsupportedKind, e.Name, strings.Join(KindNames(), ", "))
}

func (e *KindError) Unwrap() error {
	return ErrUnsupportedKind
}

// KindNames returns the canonical names of all supported kinds.
func KindNames() []string {
	names := make([]string, len(AllKinds))
	for i, k := range AllKinds {
		names[i] = k.String()
	}
	return names
}

// Terminology holds the front-end labels for items and links of a kind.
type Terminology struct {
	Item              string `json:"item"`
	Items             string `json:"items"`
	Link              string `json:"link"`
	Links             string `json:"links"`
	LinkStrength      string `json:"link_strength"`
	TotalLinkStrength string `json:"total_link_strength"`
}

func newTerminology(item, link string) Terminology {
	return Terminology{
		Item:              item,
		Items:             item + "s",
		Link:              link,
		Links:             link + "s",
		LinkStrength:      link + " links",
		TotalLinkStrength: "Total links",
	}
}

var terminologies = map[Kind]Terminology{
	Organizations: newTerminology("Organization", "Collaboration"),
	Concepts:      newTerminology("Concept", "Co-occurrence"),
}

// Terminology returns the static labels for the kind.
func (k Kind) Terminology() Terminology {
	return terminologies[k]
}
