package interchange

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sysmlkit/sysmlkit/internal/engine"
)

const (
	kparManifestPath = "META-INF/manifest.json"
	kparPayloadPath  = "model.xmi"
)

// kparManifest describes the archive payload. No timestamps, so archives of
// the same model are byte-identical.
type kparManifest struct {
	Format        string `json:"format"`
	Version       string `json:"version"`
	Payload       string `json:"payload"`
	Elements      int    `json:"elements"`
	Relationships int    `json:"relationships"`
	Digest        string `json:"digest"`
}

// KPAR wraps the XMI representation plus a manifest inside a zip container.
type KPAR struct{}

func (KPAR) Name() string { return "kpar" }

func (KPAR) Write(m *Model) ([]byte, error) {
	payload, err := XMI{}.Write(m)
	if err != nil {
		return nil, err
	}
	manifest := kparManifest{
		Format:        "kpar",
		Version:       "1.0",
		Payload:       kparPayloadPath,
		Elements:      len(m.Elements),
		Relationships: len(m.Relationships),
		Digest:        fmt.Sprintf("%016x", engine.Digest(payload)),
	}
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	archive := zip.NewWriter(buf)
	for _, entry := range []struct {
		name string
		data []byte
	}{
		{kparManifestPath, manifestData},
		{kparPayloadPath, payload},
	} {
		writer, err := archive.CreateHeader(&zip.FileHeader{Name: entry.name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := writer.Write(entry.data); err != nil {
			return nil, err
		}
	}
	if err := archive.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (KPAR) Read(data []byte) (*Model, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("malformed KPAR archive: %w", err)
	}
	payloadName := kparPayloadPath
	if manifestData, err := readZipEntry(archive, kparManifestPath); err == nil {
		var manifest kparManifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			return nil, fmt.Errorf("malformed KPAR manifest: %w", err)
		}
		if manifest.Payload != "" {
			payloadName = manifest.Payload
		}
	}
	payload, err := readZipEntry(archive, payloadName)
	if err != nil {
		return nil, fmt.Errorf("malformed KPAR archive: missing payload %s", payloadName)
	}
	return XMI{}.Read(payload)
}

func readZipEntry(archive *zip.Reader, name string) ([]byte, error) {
	for _, file := range archive.File {
		if file.Name != name {
			continue
		}
		reader, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return io.ReadAll(reader)
	}
	return nil, fmt.Errorf("entry %s not found", name)
}
