package interchange

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML serializes the model as a flat ordered sequence of tagged records.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

type yamlElement struct {
	Type          string   `yaml:"type"`
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name,omitempty"`
	QualifiedName string   `yaml:"qualifiedName,omitempty"`
	Owner         string   `yaml:"owner,omitempty"`
	TypedBy       string   `yaml:"typedBy,omitempty"`
	Specializes   []string `yaml:"specializes,omitempty"`
	Provenance    string   `yaml:"provenance,omitempty"`
}

type yamlDocument struct {
	Elements []yamlElement `yaml:"elements"`
}

func (YAML) Write(m *Model) ([]byte, error) {
	doc := yamlDocument{Elements: make([]yamlElement, 0, len(m.Elements))}
	for _, el := range m.Elements {
		record := yamlElement{
			Type:          el.Kind,
			ID:            el.ID,
			Name:          el.Name,
			QualifiedName: el.QualifiedName,
			Owner:         el.Owner,
			TypedBy:       el.Type,
			Specializes:   el.Supertypes,
		}
		if el.Provenance == ProvenanceSelfContained {
			record.Provenance = el.Provenance
		}
		doc.Elements = append(doc.Elements, record)
	}
	return yaml.Marshal(&doc)
}

func (YAML) Read(data []byte) (*Model, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed YAML document: %w", err)
	}
	model := &Model{}
	for _, record := range doc.Elements {
		if record.ID == "" {
			return nil, fmt.Errorf("malformed YAML document: element without id")
		}
		el := &Element{
			ID:            record.ID,
			Kind:          record.Type,
			Name:          record.Name,
			QualifiedName: record.QualifiedName,
			Owner:         record.Owner,
			Type:          record.TypedBy,
			Supertypes:    record.Specializes,
			Provenance:    record.Provenance,
		}
		if el.Provenance == "" {
			el.Provenance = ProvenanceSource
		}
		model.Add(el)
	}
	model.rebuildRelationships()
	return model, nil
}
