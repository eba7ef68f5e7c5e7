package interchange

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JSONLD serializes the model as a flat ordered @graph of tagged records
// with explicit identifier and reference fields.
type JSONLD struct{}

func (JSONLD) Name() string { return "jsonld" }

const uuidURNPrefix = "urn:uuid:"

type jsonldRef struct {
	ID string `json:"@id"`
}

type jsonldNode struct {
	ID            string      `json:"@id"`
	Type          string      `json:"@type"`
	Name          string      `json:"name,omitempty"`
	QualifiedName string      `json:"qualifiedName,omitempty"`
	Owner         *jsonldRef  `json:"owner,omitempty"`
	TypedBy       *jsonldRef  `json:"typedBy,omitempty"`
	Specializes   []jsonldRef `json:"specializes,omitempty"`
	Provenance    string      `json:"provenance,omitempty"`
}

type jsonldDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []jsonldNode      `json:"@graph"`
}

func jsonldContext() map[string]string {
	return map[string]string{
		"sysml":         sysmlNamespace + "#",
		"name":          "sysml:declaredName",
		"qualifiedName": "sysml:qualifiedName",
		"owner":         "sysml:owner",
		"typedBy":       "sysml:type",
		"specializes":   "sysml:specializes",
	}
}

func (JSONLD) Write(m *Model) ([]byte, error) {
	doc := jsonldDocument{Context: jsonldContext(), Graph: make([]jsonldNode, 0, len(m.Elements))}
	for _, el := range m.Elements {
		node := jsonldNode{
			ID:            uuidURNPrefix + el.ID,
			Type:          el.Kind,
			Name:          el.Name,
			QualifiedName: el.QualifiedName,
		}
		if el.Owner != "" {
			node.Owner = &jsonldRef{ID: uuidURNPrefix + el.Owner}
		}
		if el.Type != "" {
			node.TypedBy = &jsonldRef{ID: uuidURNPrefix + el.Type}
		}
		for _, super := range el.Supertypes {
			node.Specializes = append(node.Specializes, jsonldRef{ID: uuidURNPrefix + super})
		}
		if el.Provenance == ProvenanceSelfContained {
			node.Provenance = el.Provenance
		}
		doc.Graph = append(doc.Graph, node)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (JSONLD) Read(data []byte) (*Model, error) {
	var doc jsonldDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed JSON-LD document: %w", err)
	}
	model := &Model{}
	for _, node := range doc.Graph {
		if node.ID == "" {
			return nil, fmt.Errorf("malformed JSON-LD document: node without @id")
		}
		el := &Element{
			ID:            stripURN(node.ID),
			Kind:          node.Type,
			Name:          node.Name,
			QualifiedName: node.QualifiedName,
			Provenance:    node.Provenance,
		}
		if el.Provenance == "" {
			el.Provenance = ProvenanceSource
		}
		if node.Owner != nil {
			el.Owner = stripURN(node.Owner.ID)
		}
		if node.TypedBy != nil {
			el.Type = stripURN(node.TypedBy.ID)
		}
		for _, super := range node.Specializes {
			el.Supertypes = append(el.Supertypes, stripURN(super.ID))
		}
		model.Add(el)
	}
	model.rebuildRelationships()
	return model, nil
}

func stripURN(id string) string {
	return strings.TrimPrefix(id, uuidURNPrefix)
}
