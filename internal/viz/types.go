// Package viz serializes network graphs into the VOSviewer JSON format
// consumed by the front end.
package viz

import "github.com/matsen/dimnet/internal/network"

// Document is the on-disk VOSviewer JSON document.
type Document struct {
	Config  Config  `json:"config"`
	Network Network `json:"network"`
}

// Config holds the front-end labels, description templates and styles.
type Config struct {
	Terminology network.Terminology `json:"terminology"`
	Templates   Templates           `json:"templates"`
	Styles      Styles              `json:"styles"`
}

// Templates are HTML snippets the front end fills with item and link data.
type Templates struct {
	ItemDescription string `json:"item_description"`
	LinkDescription string `json:"link_description"`
}

// Styles are CSS rules for the description panels.
type Styles struct {
	DescriptionHeading string `json:"description_heading"`
}

// Network holds the items and links.
type Network struct {
	Items []Item `json:"items"`
	Links []Link `json:"links"`
}

// Item is a node in VOSviewer format. Node URLs go through the
// item_description template, so items carry the custom_search fragment
// rather than a url.
type Item struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	CustomSearch string `json:"custom_search"`
}

// Link is an edge in VOSviewer format.
type Link struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	URL      string `json:"url"`
	Strength int64  `json:"strength"`
}

// IsEmpty returns true if the document has no items.
func (d *Document) IsEmpty() bool {
	return len(d.Network.Items) == 0
}
