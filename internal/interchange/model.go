// Package interchange holds the format-agnostic model graph exchanged with
// external tools, plus one serializer per concrete syntax. All formats agree
// on the same Model; differences are purely syntactic.
package interchange

import (
	"fmt"

	"github.com/google/uuid"
)

// Element provenance values.
const (
	ProvenanceSource        = "source"
	ProvenanceSelfContained = "self-contained"
)

// Relationship kinds.
const (
	RelOwningMembership = "OwningMembership"
	RelSpecialization   = "Specialization"
	RelFeatureTyping    = "FeatureTyping"
)

// Element is one exportable record. All cross-element links are identifier
// references, resolved at serialization time, so forward references inside a
// document are legal.
type Element struct {
	ID            string
	Kind          string
	Name          string
	QualifiedName string
	// Owner is the identifier of the owning element, empty for roots.
	Owner string
	// Type is the typing target for usages (identifier reference).
	Type string
	// Supertypes are specialization targets (identifier references).
	Supertypes []string
	// Provenance distinguishes ordinary records from inlined library ones.
	Provenance string
}

// Relationship is an explicit edge record between two elements by identifier.
type Relationship struct {
	ID     string
	Kind   string
	Source string
	Target string
}

// Model is an ordered sequence of element records plus their relationships.
type Model struct {
	Elements      []*Element
	Relationships []*Relationship

	byID map[string]*Element
}

// Add appends an element and keeps the identifier index current.
func (m *Model) Add(el *Element) {
	if m.byID == nil {
		m.byID = map[string]*Element{}
	}
	m.Elements = append(m.Elements, el)
	m.byID[el.ID] = el
}

// Element returns the record with the given identifier, or nil.
func (m *Model) Element(id string) *Element {
	if m.byID == nil {
		m.byID = map[string]*Element{}
		for _, el := range m.Elements {
			m.byID[el.ID] = el
		}
	}
	return m.byID[id]
}

// IDSet returns the set of element identifiers in the document.
func (m *Model) IDSet() map[string]bool {
	set := make(map[string]bool, len(m.Elements))
	for _, el := range m.Elements {
		set[el.ID] = true
	}
	return set
}

// relationshipID derives a deterministic identifier from the edge itself so
// re-serializing the same document yields the same bytes.
func relationshipID(kind, source, target string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+"|"+source+"|"+target)).String()
}

// rebuildRelationships reconstructs the explicit relationship records from
// the inline identifier references. Serializers that store references inline
// call this after reading.
func (m *Model) rebuildRelationships() {
	m.Relationships = nil
	for _, el := range m.Elements {
		if el.Owner != "" {
			m.Relationships = append(m.Relationships, &Relationship{
				ID:     relationshipID(RelOwningMembership, el.Owner, el.ID),
				Kind:   RelOwningMembership,
				Source: el.Owner,
				Target: el.ID,
			})
		}
		if el.Type != "" {
			m.Relationships = append(m.Relationships, &Relationship{
				ID:     relationshipID(RelFeatureTyping, el.ID, el.Type),
				Kind:   RelFeatureTyping,
				Source: el.ID,
				Target: el.Type,
			})
		}
		for _, super := range el.Supertypes {
			m.Relationships = append(m.Relationships, &Relationship{
				ID:     relationshipID(RelSpecialization, el.ID, super),
				Kind:   RelSpecialization,
				Source: el.ID,
				Target: super,
			})
		}
	}
}

// Validate checks that every relationship endpoint resolves to a record in
// the document. The returned messages describe each dangling reference.
func (m *Model) Validate() []string {
	var issues []string
	for _, rel := range m.Relationships {
		if m.Element(rel.Source) == nil {
			issues = append(issues, fmt.Sprintf("relationship source '%s' not found", rel.Source))
		}
		if m.Element(rel.Target) == nil {
			issues = append(issues, fmt.Sprintf("relationship target '%s' not found", rel.Target))
		}
	}
	return issues
}
