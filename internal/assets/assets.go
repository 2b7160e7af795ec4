package assets

import (
	"embed"
	"io/fs"
)

// Curated schemas and report templates (embedded)

//go:embed embedded_schemas
var schemaFS embed.FS

//go:embed embedded_templates
var templateFS embed.FS

// ManifestSchemaName is the registry name of the current manifest schema.
const ManifestSchemaName = "toolkit-manifest-v1.0.0"

// GetSchema returns the embedded schema bytes by name (e.g., "toolkit-manifest-v1.0.0").
func GetSchema(name string) ([]byte, bool) {
	data, err := schemaFS.ReadFile("embedded_schemas/" + name + ".json")
	return data, err == nil
}

// GetTemplate returns the embedded template bytes by file name (e.g., "drift-report.md.hbs").
func GetTemplate(name string) ([]byte, bool) {
	data, err := templateFS.ReadFile("embedded_templates/" + name)
	return data, err == nil
}

// GetSchemasFS exposes the embedded schema tree rooted at its directory.
func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(schemaFS, "embedded_schemas"); err == nil {
		return sub
	}
	return schemaFS
}
