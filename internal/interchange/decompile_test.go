package interchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompile(t *testing.T) {
	result := Decompile(fixtureModel(), "model.xmi", "xmi")
	assert.Equal(t, 4, result.ElementCount)
	assert.Equal(t, `package Vehicle {
    part def Engine;
    part def Turbo :> Engine;
    part e : Engine;
}
`, result.Text)

	assert.Equal(t, "model.xmi", result.Metadata.Source)
	assert.Equal(t, "xmi", result.Metadata.Format)
	assert.Equal(t, "id-def", result.Metadata.Elements["Vehicle::Engine"])
	assert.Len(t, result.Metadata.Elements, 4)
}

func TestDecompile_DanglingReferencesOmitted(t *testing.T) {
	m := &Model{}
	m.Add(&Element{ID: "p", Kind: "Package", Name: "P", QualifiedName: "P"})
	m.Add(&Element{ID: "u", Kind: "PartUsage", Name: "u", QualifiedName: "P::u", Owner: "p", Type: "gone"})
	m.rebuildRelationships()

	result := Decompile(m, "in.yaml", "yaml")
	assert.Equal(t, "package P {\n    part u;\n}\n", result.Text)
}

func TestMetadata_ParseRoundtrip(t *testing.T) {
	metadata := Metadata{
		Source:   "model.kpar",
		Format:   "kpar",
		Elements: map[string]string{"A": "id-a"},
	}
	data, err := metadata.JSON()
	require.NoError(t, err)

	parsed, err := ParseMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, metadata, *parsed)
}

func TestParseMetadata_Malformed(t *testing.T) {
	_, err := ParseMetadata([]byte("nope"))
	require.Error(t, err)
}
