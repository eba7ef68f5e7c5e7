package interchange

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	xmiNamespace   = "http://www.omg.org/spec/XMI/20131001"
	sysmlNamespace = "https://www.omg.org/spec/SysML/20240201"
)

// XMI serializes the model as nested XML element tags keyed by kind, one
// universally unique xmi:id per element.
type XMI struct{}

func (XMI) Name() string { return "xmi" }

func (XMI) Write(m *Model) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "xmi:XMI"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:xmi"}, Value: xmiNamespace},
			{Name: xml.Name{Local: "xmlns:sysml"}, Value: sysmlNamespace},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}
	children := ownershipIndex(m)
	for _, el := range m.Elements {
		if el.Owner != "" && m.Element(el.Owner) != nil {
			continue
		}
		if err := writeXMIElement(enc, m, children, el, true); err != nil {
			return nil, err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// ownershipIndex groups element identifiers by owner, preserving document
// order.
func ownershipIndex(m *Model) map[string][]*Element {
	children := map[string][]*Element{}
	for _, el := range m.Elements {
		if el.Owner != "" {
			children[el.Owner] = append(children[el.Owner], el)
		}
	}
	return children
}

func writeXMIElement(enc *xml.Encoder, m *Model, children map[string][]*Element, el *Element, top bool) error {
	var start xml.StartElement
	if top {
		start.Name = xml.Name{Local: "sysml:" + el.Kind}
	} else {
		start.Name = xml.Name{Local: "ownedElement"}
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xmi:type"}, Value: "sysml:" + el.Kind})
	}
	start.Attr = append(start.Attr,
		xml.Attr{Name: xml.Name{Local: "xmi:id"}, Value: el.ID},
		xml.Attr{Name: xml.Name{Local: "name"}, Value: el.Name},
		xml.Attr{Name: xml.Name{Local: "qualifiedName"}, Value: el.QualifiedName},
	)
	if el.Provenance == ProvenanceSelfContained {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "provenance"}, Value: el.Provenance})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if el.Type != "" {
		typing := xml.StartElement{
			Name: xml.Name{Local: "featureTyping"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "xmi:id"}, Value: relationshipID(RelFeatureTyping, el.ID, el.Type)},
				{Name: xml.Name{Local: "general"}, Value: el.Type},
			},
		}
		if err := enc.EncodeToken(typing); err != nil {
			return err
		}
		if err := enc.EncodeToken(typing.End()); err != nil {
			return err
		}
	}
	for _, super := range el.Supertypes {
		spec := xml.StartElement{
			Name: xml.Name{Local: "specialization"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "xmi:id"}, Value: relationshipID(RelSpecialization, el.ID, super)},
				{Name: xml.Name{Local: "general"}, Value: super},
			},
		}
		if err := enc.EncodeToken(spec); err != nil {
			return err
		}
		if err := enc.EncodeToken(spec.End()); err != nil {
			return err
		}
	}
	for _, child := range children[el.ID] {
		if err := writeXMIElement(enc, m, children, child, false); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func (XMI) Read(data []byte) (*Model, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	model := &Model{}
	type frame struct {
		local  string
		pushed bool
	}
	var frames []frame
	var owners []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XMI document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			local := t.Name.Local
			switch local {
			case "XMI":
				frames = append(frames, frame{local: local})
			case "featureTyping", "specialization":
				target := xmiAttr(t, "general")
				if len(owners) == 0 || target == "" {
					return nil, fmt.Errorf("malformed XMI document: stray %s", local)
				}
				parent := owners[len(owners)-1]
				if local == "featureTyping" {
					parent.Type = target
				} else {
					parent.Supertypes = append(parent.Supertypes, target)
				}
				frames = append(frames, frame{local: local})
			default:
				id := xmiAttr(t, "id")
				if id == "" {
					return nil, fmt.Errorf("malformed XMI document: element %q without xmi:id", local)
				}
				kind := strings.TrimPrefix(xmiAttr(t, "type"), "sysml:")
				if kind == "" {
					kind = local
				}
				el := &Element{
					ID:            id,
					Kind:          kind,
					Name:          xmiAttr(t, "name"),
					QualifiedName: xmiAttr(t, "qualifiedName"),
					Provenance:    xmiAttr(t, "provenance"),
				}
				if el.Provenance == "" {
					el.Provenance = ProvenanceSource
				}
				if len(owners) > 0 {
					el.Owner = owners[len(owners)-1].ID
				}
				model.Add(el)
				owners = append(owners, el)
				frames = append(frames, frame{local: local, pushed: true})
			}
		case xml.EndElement:
			if len(frames) == 0 {
				return nil, fmt.Errorf("malformed XMI document: unbalanced end tag")
			}
			top := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			if top.pushed {
				owners = owners[:len(owners)-1]
			}
		}
	}
	model.rebuildRelationships()
	return model, nil
}

// xmiAttr finds an attribute by local name, namespace prefixes ignored.
func xmiAttr(start xml.StartElement, local string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
