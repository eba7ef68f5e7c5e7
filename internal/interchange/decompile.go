package interchange

import (
	"encoding/json"
	"strings"
)

// kindKeywords maps element kinds back to their source-language keywords.
var kindKeywords = map[string]string{
	"Package":             "package",
	"PartDefinition":      "part def",
	"ItemDefinition":      "item def",
	"PortDefinition":      "port def",
	"ActionDefinition":    "action def",
	"AttributeDefinition": "attribute def",
	"PartUsage":           "part",
	"ItemUsage":           "item",
	"PortUsage":           "port",
	"ActionUsage":         "action",
	"AttributeUsage":      "attribute",
}

// Metadata preserves element identifiers alongside decompiled text so a
// later export of the reconstructed source can restore them.
type Metadata struct {
	Source string `json:"source,omitempty"`
	Format string `json:"format,omitempty"`
	// Elements maps qualified names to element identifiers.
	Elements map[string]string `json:"elements"`
}

// JSON serializes the metadata companion file.
func (m *Metadata) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// ParseMetadata reads a metadata companion file.
func ParseMetadata(data []byte) (*Metadata, error) {
	var metadata Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	if metadata.Elements == nil {
		metadata.Elements = map[string]string{}
	}
	return &metadata, nil
}

// DecompileResult is reconstructed source text plus its identifier metadata.
type DecompileResult struct {
	Text         string
	Metadata     Metadata
	ElementCount int
}

// Decompile reconstructs source text from a document. Ownership nesting
// drives the block structure; identifier references are rendered through the
// referenced element's name.
func Decompile(m *Model, source, format string) *DecompileResult {
	builder := &strings.Builder{}
	children := ownershipIndex(m)
	for _, el := range m.Elements {
		if el.Owner != "" && m.Element(el.Owner) != nil {
			continue
		}
		writeSourceElement(builder, m, children, el, 0)
	}

	metadata := Metadata{
		Source:   source,
		Format:   format,
		Elements: map[string]string{},
	}
	for _, el := range m.Elements {
		metadata.Elements[el.QualifiedName] = el.ID
	}
	return &DecompileResult{
		Text:         builder.String(),
		Metadata:     metadata,
		ElementCount: len(m.Elements),
	}
}

func writeSourceElement(builder *strings.Builder, m *Model, children map[string][]*Element, el *Element, depth int) {
	indent := strings.Repeat("    ", depth)
	keyword, known := kindKeywords[el.Kind]
	if !known {
		keyword = "part"
	}
	builder.WriteString(indent)
	builder.WriteString(keyword)
	builder.WriteString(" ")
	builder.WriteString(el.Name)
	if target := m.Element(el.Type); target != nil {
		builder.WriteString(" : ")
		builder.WriteString(target.Name)
	}
	var supers []string
	for _, super := range el.Supertypes {
		if target := m.Element(super); target != nil {
			supers = append(supers, target.Name)
		}
	}
	if len(supers) > 0 {
		builder.WriteString(" :> ")
		builder.WriteString(strings.Join(supers, ", "))
	}
	owned := children[el.ID]
	if len(owned) == 0 {
		builder.WriteString(";\n")
		return
	}
	builder.WriteString(" {\n")
	for _, child := range owned {
		writeSourceElement(builder, m, children, child, depth+1)
	}
	builder.WriteString(indent)
	builder.WriteString("}\n")
}
