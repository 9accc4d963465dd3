// Package document holds the persisted page model: an ordered list of
// component instances plus a version tag.
//
// The JSON shape is part of the storage contract:
//
//	{ "version": 1, "components": [{ "id": "...", "type": "...", "props": {...} }] }
//
// Documents are treated as immutable values once handed to the editor store;
// every mutation produces a new Document.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gnana997/promokit/pkg/util"
)

// CurrentVersion is the only document shape written today.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned when a document declares a version this
// build does not understand.
var ErrUnsupportedVersion = errors.New("unsupported document version")

// Props is a component's property bag. It is not required to be complete
// with respect to the component's schema.
type Props map[string]any

// Instance is one placement of a component on a page.
type Instance struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Props Props  `json:"props"`
}

// Document is one page.
type Document struct {
	Version    int        `json:"version"`
	Components []Instance `json:"components"`
}

// New returns an empty document at the current version.
func New() Document {
	return Document{Version: CurrentVersion, Components: []Instance{}}
}

// NewID returns a fresh instance id of the form "comp_" followed by 12 hex
// characters of a random UUID.
func NewID() string {
	return "comp_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewInstance builds an instance of typ with a fresh id and a deep copy of props.
func NewInstance(typ string, props map[string]any) Instance {
	return Instance{ID: NewID(), Type: typ, Props: util.CopyMap(props)}
}

// Parse decodes a persisted document. A missing version is read as version 1
// and a missing component list as empty.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	if doc.Version != CurrentVersion {
		return Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Components == nil {
		doc.Components = []Instance{}
	}
	for i := range doc.Components {
		if doc.Components[i].Props == nil {
			doc.Components[i].Props = Props{}
		}
	}
	return doc, nil
}

// Marshal encodes d in its persisted shape.
func (d Document) Marshal() ([]byte, error) {
	if d.Components == nil {
		d.Components = []Instance{}
	}
	return json.Marshal(d)
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := Document{Version: d.Version, Components: make([]Instance, len(d.Components))}
	for i, c := range d.Components {
		out.Components[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the instance.
func (in Instance) Clone() Instance {
	return Instance{ID: in.ID, Type: in.Type, Props: util.CopyMap(in.Props)}
}

// Index returns the position of the instance with id, or -1.
func (d Document) Index(id string) int {
	for i, c := range d.Components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the instance with id.
func (d Document) Find(id string) (Instance, bool) {
	if i := d.Index(id); i >= 0 {
		return d.Components[i], true
	}
	return Instance{}, false
}

// Len returns the number of instances.
func (d Document) Len() int {
	return len(d.Components)
}

// Validate checks the structural invariants: a known version, non-empty ids
// and types, and ids unique within the document.
func (d Document) Validate() error {
	var errs []error
	if d.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version))
	}
	seen := make(map[string]int, len(d.Components))
	for i, c := range d.Components {
		if c.ID == "" {
			errs = append(errs, fmt.Errorf("components[%d]: id is required", i))
		} else if prev, dup := seen[c.ID]; dup {
			errs = append(errs, fmt.Errorf("components[%d]: duplicate id %q (first at %d)", i, c.ID, prev))
		} else {
			seen[c.ID] = i
		}
		if c.Type == "" {
			errs = append(errs, fmt.Errorf("components[%d]: type is required", i))
		}
	}
	return errors.Join(errs...)
}

// Equal reports whether two documents hold the same instances in the same
// order with equal props.
func Equal(a, b Document) bool {
	if a.Version != b.Version || len(a.Components) != len(b.Components) {
		return false
	}
	for i := range a.Components {
		x, y := a.Components[i], b.Components[i]
		if x.ID != y.ID || x.Type != y.Type {
			return false
		}
		if !util.EqualValues(map[string]any(x.Props), map[string]any(y.Props)) {
			return false
		}
	}
	return true
}
