package viz

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matsen/dimnet/internal/graph"
)

// descriptionHeadingStyle is the CSS of the description panel headings.
const descriptionHeadingStyle = "color: #757575; font-weight: 600;"

// NewDocument converts a graph to a VOSviewer document. Items are ordered
// by identifier; links keep the graph's order. baseURL is copied into the
// item template with its {custom_search} placeholder intact, for the front
// end to resolve per item.
func NewDocument(g *graph.Graph, baseURL string) *Document {
	doc := &Document{
		Config: Config{
			Terminology: g.Terminology,
			Templates: Templates{
				ItemDescription: itemDescription(g.Terminology.Item, baseURL),
				LinkDescription: linkDescription(g.Terminology.Link),
			},
			Styles: Styles{DescriptionHeading: descriptionHeadingStyle},
		},
		Network: Network{
			Items: make([]Item, 0, len(g.Items)),
			Links: make([]Link, 0, len(g.Links)),
		},
	}

	for _, id := range g.ItemIDs() {
		it := g.Items[id]
		doc.Network.Items = append(doc.Network.Items, Item{
			ID:           it.ID,
			Label:        it.Label,
			CustomSearch: it.CustomSearch,
		})
	}

	for _, l := range g.Links {
		doc.Network.Links = append(doc.Network.Links, Link{
			SourceID: l.SourceID,
			TargetID: l.TargetID,
			URL:      l.URL,
			Strength: l.Strength,
		})
	}

	return doc
}

func itemDescription(itemLabel, baseURL string) string {
	return "<div class='description_heading'>" + itemLabel + "</div>" +
		"<div class='description_label'><a class='description_url' href='" + baseURL +
		"' target='_blank'>{label}</a></div>"
}

func linkDescription(linkLabel string) string {
	return "<div class='description_heading'>" + linkLabel + "</div>" +
		"<div class='description_label'>{source_label} + {target_label}</div>"
}

// Marshal encodes the document as compact JSON. HTML in the templates and
// ampersands in URLs are written as-is.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("marshaling VOSviewer document: %w", err)
	}
	return buf.Bytes(), nil
}
