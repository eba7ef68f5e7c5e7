package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysmlkit/sysmlkit/internal/interchange"
)

func testOptions() Options {
	return Options{
		LoadStdlib: false,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Status:     io.Discard,
	}
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyze_EmptyPackage(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "test.sysml", `package Test {}`)

	result, err := Analyze(context.Background(), path, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FileCount)
	assert.GreaterOrEqual(t, result.SymbolCount, 1)
	assert.Zero(t, result.ErrorCount)
}

func TestAnalyze_UnresolvedReference(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "test.sysml", `package Test { part p : Unknown; }`)

	result, err := Analyze(context.Background(), path, testOptions())
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.ErrorCount, 1)
	assert.Contains(t, result.Diagnostics[0].Message, "Unknown")
}

func TestAnalyze_TwoPackages(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.sysml", `package A {}`)
	writeFixture(t, dir, "b.sysml", `package B {}`)

	result, err := Analyze(context.Background(), dir, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, result.FileCount)
	assert.Equal(t, 2, result.SymbolCount)
	assert.Zero(t, result.ErrorCount)
}

func TestAnalyze_MissingPath(t *testing.T) {
	_, err := Analyze(context.Background(), filepath.Join(t.TempDir(), "nope"), testOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path does not exist")
}

func TestExport_Formats(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "test.sysml", `package Test { part def Engine; part e : Engine; }`)

	for _, format := range []string{"xmi", "jsonld", "yaml", "kpar"} {
		t.Run(format, func(t *testing.T) {
			data, err := Export(context.Background(), path, format, testOptions())
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}

	_, err := Export(context.Background(), path, "protobuf", testOptions())
	require.Error(t, err)
}

func TestImport_Valid(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "test.sysml", `package Test { part def Engine; part e : Engine; }`)
	data, err := Export(context.Background(), source, "xmi", testOptions())
	require.NoError(t, err)
	document := writeFixture(t, dir, "model.xmi", string(data))

	result, err := Import(context.Background(), document)
	require.NoError(t, err)
	assert.Equal(t, 3, result.ElementCount)
	assert.Equal(t, 3, result.RelationshipCount)
	assert.Empty(t, result.Issues)
}

func TestImport_DanglingReference(t *testing.T) {
	dir := t.TempDir()
	document := writeFixture(t, dir, "model.yaml", `elements:
    - type: Package
      id: id-a
      name: A
      qualifiedName: A
    - type: PartUsage
      id: id-b
      name: b
      qualifiedName: A::b
      owner: id-a
      typedBy: id-missing
`)
	result, err := Import(context.Background(), document)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Issues)
}

func TestImportWorkspace_PreservesIdentifiers(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "test.sysml", `package Test { part def Engine; part e : Engine; }`)
	data, err := Export(context.Background(), source, "jsonld", testOptions())
	require.NoError(t, err)
	document := writeFixture(t, dir, "model.jsonld", string(data))

	c, result, err := ImportWorkspace(context.Background(), document, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, result.ElementCount)

	_, symbolCount := c.Summary()
	assert.Equal(t, 3, symbolCount)

	imported, err := interchange.JSONLD{}.Read(data)
	require.NoError(t, err)
	for _, sym := range c.Index().AllSymbols() {
		assert.True(t, imported.IDSet()[sym.ElementID],
			"symbol %s must carry a document identifier", sym.QualifiedName)
	}
}

func TestImportWorkspace_ToleratesExternalReferences(t *testing.T) {
	dir := t.TempDir()
	document := writeFixture(t, dir, "model.yaml", `elements:
    - type: PartUsage
      id: id-b
      name: b
      qualifiedName: b
      typedBy: id-missing
`)
	c, result, err := ImportWorkspace(context.Background(), document, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.ElementCount)

	_, symbolCount := c.Summary()
	assert.Equal(t, 1, symbolCount)
	// the external typing target cannot be named, so the symbol stays untyped
	assert.Empty(t, c.Index().AllSymbols()[0].TypeRef)
}

func TestRoundtrip_IdentifierSetEquality(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "test.sysml", `package Vehicle {
    part def Engine;
    part def Turbo :> Engine;
    part e : Engine;
}`)
	exported, err := Export(context.Background(), source, "xmi", testOptions())
	require.NoError(t, err)
	document := writeFixture(t, dir, "model.xmi", string(exported))

	reexported, _, err := Roundtrip(context.Background(), document, "xmi", testOptions())
	require.NoError(t, err)

	first, err := interchange.XMI{}.Read(exported)
	require.NoError(t, err)
	second, err := interchange.XMI{}.Read(reexported)
	require.NoError(t, err)
	assert.Equal(t, first.IDSet(), second.IDSet())
}

func TestRoundtrip_AcrossFormats(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "test.sysml", `package Test { part def Engine; part e : Engine; }`)
	exported, err := Export(context.Background(), source, "yaml", testOptions())
	require.NoError(t, err)
	document := writeFixture(t, dir, "model.yaml", string(exported))

	// import YAML, re-export as JSON-LD: identifiers survive the syntax change
	reexported, _, err := Roundtrip(context.Background(), document, "jsonld", testOptions())
	require.NoError(t, err)

	first, err := interchange.YAML{}.Read(exported)
	require.NoError(t, err)
	second, err := interchange.JSONLD{}.Read(reexported)
	require.NoError(t, err)
	assert.Equal(t, first.IDSet(), second.IDSet())
}

func TestRoundtrip_StdlibReferencedModel(t *testing.T) {
	stdlib := t.TempDir()
	writeFixture(t, stdlib, "ScalarValues.sysml", `package ScalarValues { attribute def Real; }`)
	dir := t.TempDir()
	source := writeFixture(t, dir, "test.sysml", `package Test { attribute mass : Real; }`)

	opts := testOptions()
	opts.LoadStdlib = true
	opts.StdlibPath = stdlib

	// a non-self-contained export carries the library reference target
	// without the library records
	exported, err := Export(context.Background(), source, "xmi", opts)
	require.NoError(t, err)
	first, err := interchange.XMI{}.Read(exported)
	require.NoError(t, err)
	require.NotEmpty(t, first.Validate())

	document := writeFixture(t, dir, "model.xmi", string(exported))
	reexported, result, err := Roundtrip(context.Background(), document, "xmi", testOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, result.ElementCount)

	second, err := interchange.XMI{}.Read(reexported)
	require.NoError(t, err)
	assert.Equal(t, first.IDSet(), second.IDSet())
}

func TestDecompile_ThenExportRestoresIdentifiers(t *testing.T) {
	dir := t.TempDir()
	source := writeFixture(t, dir, "test.sysml", `package Test { part def Engine; part e : Engine; }`)
	exported, err := Export(context.Background(), source, "xmi", testOptions())
	require.NoError(t, err)
	document := writeFixture(t, dir, "model.xmi", string(exported))

	result, err := Decompile(context.Background(), document)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "part def Engine;")
	assert.Equal(t, 3, result.ElementCount)

	// write the reconstructed source plus metadata into a fresh directory and
	// export it again: the original identifiers come back
	out := t.TempDir()
	writeFixture(t, out, "test.sysml", result.Text)
	metadata, err := result.Metadata.JSON()
	require.NoError(t, err)
	writeFixture(t, out, "test.metadata.json", string(metadata))

	reexported, err := Export(context.Background(), filepath.Join(out, "test.sysml"), "xmi", testOptions())
	require.NoError(t, err)

	first, err := interchange.XMI{}.Read(exported)
	require.NoError(t, err)
	second, err := interchange.XMI{}.Read(reexported)
	require.NoError(t, err)
	assert.Equal(t, first.IDSet(), second.IDSet())
}

func TestExportAST(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "test.sysml", `package Test { part def Engine; }`)

	data, err := ExportAST(context.Background(), path, testOptions())
	require.NoError(t, err)

	var decoded struct {
		Files []struct {
			Path    string `json:"path"`
			Symbols []struct {
				QualifiedName string `json:"qualified_name"`
				Kind          string `json:"kind"`
			} `json:"symbols"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Files, 1)
	require.Len(t, decoded.Files[0].Symbols, 2)
	assert.Equal(t, "Test::Engine", decoded.Files[0].Symbols[1].QualifiedName)
	assert.Equal(t, "PartDefinition", decoded.Files[0].Symbols[1].Kind)
}

func TestSelfContainedExport(t *testing.T) {
	stdlib := t.TempDir()
	writeFixture(t, stdlib, "ScalarValues.sysml", `package ScalarValues { attribute def Real; }`)
	dir := t.TempDir()
	source := writeFixture(t, dir, "test.sysml", `package Test { attribute mass : Real; }`)

	opts := testOptions()
	opts.LoadStdlib = true
	opts.StdlibPath = stdlib

	opts.SelfContained = true
	contained, err := Export(context.Background(), source, "yaml", opts)
	require.NoError(t, err)
	containedModel, err := interchange.YAML{}.Read(contained)
	require.NoError(t, err)
	assert.Empty(t, containedModel.Validate(), "self-contained export has no dangling references")
	assert.Len(t, containedModel.Elements, 4)

	opts.SelfContained = false
	plain, err := Export(context.Background(), source, "yaml", opts)
	require.NoError(t, err)
	plainModel, err := interchange.YAML{}.Read(plain)
	require.NoError(t, err)
	assert.Len(t, plainModel.Elements, 2)
	assert.NotEmpty(t, plainModel.Validate(), "library references stay as dangling targets")
}
