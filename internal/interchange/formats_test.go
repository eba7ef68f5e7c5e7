package interchange

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureModel() *Model {
	m := &Model{}
	m.Add(&Element{ID: "id-pkg", Kind: "Package", Name: "Vehicle", QualifiedName: "Vehicle"})
	m.Add(&Element{ID: "id-def", Kind: "PartDefinition", Name: "Engine", QualifiedName: "Vehicle::Engine", Owner: "id-pkg"})
	m.Add(&Element{ID: "id-sub", Kind: "PartDefinition", Name: "Turbo", QualifiedName: "Vehicle::Turbo", Owner: "id-pkg", Supertypes: []string{"id-def"}})
	m.Add(&Element{ID: "id-use", Kind: "PartUsage", Name: "e", QualifiedName: "Vehicle::e", Owner: "id-pkg", Type: "id-def"})
	m.rebuildRelationships()
	return m
}

func assertModelEquals(t *testing.T, want, got *Model) {
	t.Helper()
	require.Len(t, got.Elements, len(want.Elements))
	for i, wantEl := range want.Elements {
		gotEl := got.Elements[i]
		assert.Equal(t, wantEl.ID, gotEl.ID)
		assert.Equal(t, wantEl.Kind, gotEl.Kind)
		assert.Equal(t, wantEl.Name, gotEl.Name)
		assert.Equal(t, wantEl.QualifiedName, gotEl.QualifiedName)
		assert.Equal(t, wantEl.Owner, gotEl.Owner)
		assert.Equal(t, wantEl.Type, gotEl.Type)
		assert.Equal(t, wantEl.Supertypes, gotEl.Supertypes)
	}
	assert.Equal(t, len(want.Relationships), len(got.Relationships))
}

func TestFormats_Roundtrip(t *testing.T) {
	for _, format := range []Format{XMI{}, JSONLD{}, YAML{}, KPAR{}} {
		t.Run(format.Name(), func(t *testing.T) {
			want := fixtureModel()
			data, err := format.Write(want)
			require.NoError(t, err)

			got, err := format.Read(data)
			require.NoError(t, err)
			assertModelEquals(t, want, got)
		})
	}
}

func TestXMI_Output(t *testing.T) {
	data, err := XMI{}.Write(fixtureModel())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, text, `xmlns:xmi="http://www.omg.org/spec/XMI/20131001"`)
	assert.Contains(t, text, `<sysml:Package xmi:id="id-pkg"`)
	// owned children nest inside the package element
	assert.Contains(t, text, `<ownedElement xmi:type="sysml:PartDefinition" xmi:id="id-def"`)
	assert.Contains(t, text, `general="id-def"`)
	assert.Less(t, strings.Index(text, `xmi:id="id-pkg"`), strings.Index(text, `xmi:id="id-def"`))
}

func TestXMI_Deterministic(t *testing.T) {
	first, err := XMI{}.Write(fixtureModel())
	require.NoError(t, err)
	second, err := XMI{}.Write(fixtureModel())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestXMI_Malformed(t *testing.T) {
	_, err := XMI{}.Read([]byte(`<xmi:XMI xmlns:xmi="http://www.omg.org/spec/XMI/20131001"><sysml:Package`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed XMI")

	_, err = XMI{}.Read([]byte(`<XMI><Package name="x"></Package></XMI>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without xmi:id")
}

func TestJSONLD_Output(t *testing.T) {
	data, err := JSONLD{}.Write(fixtureModel())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `"@context"`)
	assert.Contains(t, text, `"@graph"`)
	assert.Contains(t, text, `"@id": "urn:uuid:id-pkg"`)
	assert.Contains(t, text, `"@type": "PartUsage"`)
	// the graph preserves document order
	assert.Less(t, strings.Index(text, "id-pkg"), strings.Index(text, "id-use"))
}

func TestYAML_Output(t *testing.T) {
	data, err := YAML{}.Write(fixtureModel())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "elements:")
	assert.Contains(t, text, "type: Package")
	assert.Contains(t, text, "qualifiedName: Vehicle::Engine")
	assert.Contains(t, text, "typedBy: id-def")
}

func TestKPAR_Container(t *testing.T) {
	data, err := KPAR{}.Write(fixtureModel())
	require.NoError(t, err)
	// zip magic
	assert.Equal(t, []byte("PK\x03\x04"), data[:4])

	second, err := KPAR{}.Write(fixtureModel())
	require.NoError(t, err)
	assert.Equal(t, data, second, "archives carry no timestamps")
}

func TestKPAR_MalformedArchive(t *testing.T) {
	_, err := KPAR{}.Read([]byte("not a zip"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed KPAR")
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{
		"xmi": "xmi", "XMI": "xmi", "kpar": "kpar",
		"jsonld": "jsonld", "json-ld": "jsonld", "yaml": "yaml",
	} {
		format, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, format.Name())
	}
	_, err := ByName("protobuf")
	require.Error(t, err)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "xmi", Detect("model.xmi", nil).Name())
	assert.Equal(t, "kpar", Detect("model.kpar", nil).Name())
	assert.Equal(t, "jsonld", Detect("model.jsonld", nil).Name())
	assert.Equal(t, "yaml", Detect("model.yaml", nil).Name())
	// content sniffing when the extension is unknown
	assert.Equal(t, "kpar", Detect("blob", []byte("PK\x03\x04rest")).Name())
	assert.Equal(t, "xmi", Detect("blob", []byte("  <?xml version=\"1.0\"?>")).Name())
	assert.Equal(t, "jsonld", Detect("blob", []byte("{\"@graph\": []}")).Name())
}

func TestValidate_DanglingReference(t *testing.T) {
	m := &Model{}
	m.Add(&Element{ID: "a", Kind: "Package", Name: "A", QualifiedName: "A"})
	m.Add(&Element{ID: "b", Kind: "PartUsage", Name: "b", QualifiedName: "A::b", Owner: "a", Type: "missing"})
	m.rebuildRelationships()

	issues := m.Validate()
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "missing")
}
