package interchange

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysmlkit/sysmlkit/internal/engine"
)

func indexFor(t *testing.T, files map[string]string) *engine.SymbolIndex {
	t.Helper()
	host := engine.NewHost()
	// deterministic load order for the test fixtures
	for _, path := range []string{"lib.sysml", "a.sysml", "b.sysml"} {
		if content, ok := files[path]; ok {
			require.Empty(t, host.SetFileContent(path, content))
		}
	}
	host.Reindex()
	return host.Index()
}

func TestFromSymbols_MintsAndReusesIdentifiers(t *testing.T) {
	index := indexFor(t, map[string]string{
		"a.sysml": `package Test { part def Engine; part e : Engine; }`,
	})
	model := FromSymbols(index, BuildOptions{})
	require.Len(t, model.Elements, 3)
	for _, el := range model.Elements {
		assert.NotEmpty(t, el.ID)
		assert.Equal(t, ProvenanceSource, el.Provenance)
	}

	// a second traversal of the same state reuses the minted identifiers
	again := FromSymbols(index, BuildOptions{})
	assert.Equal(t, model.IDSet(), again.IDSet())
}

func TestFromSymbols_Structure(t *testing.T) {
	index := indexFor(t, map[string]string{
		"a.sysml": `package Vehicle {
    part def Engine;
    part def Turbo :> Engine;
    part e : Engine;
}`,
	})
	model := FromSymbols(index, BuildOptions{})
	require.Len(t, model.Elements, 4)

	pkg, engineDef, turbo, usage := model.Elements[0], model.Elements[1], model.Elements[2], model.Elements[3]
	assert.Empty(t, pkg.Owner)
	assert.Equal(t, pkg.ID, engineDef.Owner)
	assert.Equal(t, []string{engineDef.ID}, turbo.Supertypes)
	assert.Equal(t, engineDef.ID, usage.Type)

	kinds := map[string]int{}
	for _, rel := range model.Relationships {
		kinds[rel.Kind]++
	}
	assert.Equal(t, 3, kinds[RelOwningMembership])
	assert.Equal(t, 1, kinds[RelSpecialization])
	assert.Equal(t, 1, kinds[RelFeatureTyping])
	assert.Empty(t, model.Validate())
}

func TestFromSymbols_SelfContained(t *testing.T) {
	files := map[string]string{
		"lib.sysml": `package ScalarValues { attribute def Real; }`,
		"a.sysml":   `package Test { attribute mass : Real; }`,
	}
	isStdlib := func(path string) bool { return strings.HasPrefix(path, "lib") }

	index := indexFor(t, files)
	contained := FromSymbols(index, BuildOptions{SelfContained: true, IsStdlib: isStdlib})
	require.Len(t, contained.Elements, 4)
	assert.Empty(t, contained.Validate())
	provenance := map[string]int{}
	for _, el := range contained.Elements {
		provenance[el.Provenance]++
	}
	assert.Equal(t, 2, provenance[ProvenanceSelfContained])

	// without self-contained mode the library records are absent but their
	// identifiers remain as reference targets
	plain := FromSymbols(index, BuildOptions{SelfContained: false, IsStdlib: isStdlib})
	require.Len(t, plain.Elements, 2)
	usage := plain.Elements[1]
	assert.NotEmpty(t, usage.Type)
	assert.Nil(t, plain.Element(usage.Type))
	assert.NotEmpty(t, plain.Validate())
}

func TestSymbols_PreservesIdentifiers(t *testing.T) {
	index := indexFor(t, map[string]string{
		"a.sysml": `package Test { part def Engine; part e : Engine; }`,
	})
	model := FromSymbols(index, BuildOptions{})
	symbols := Symbols(model)
	require.Len(t, symbols, 3)
	for i, sym := range symbols {
		assert.Equal(t, model.Elements[i].ID, sym.ElementID)
		assert.Equal(t, model.Elements[i].QualifiedName, sym.QualifiedName)
	}
	// references travel as qualified names
	assert.Equal(t, "Test::Engine", symbols[2].TypeRef)
}
