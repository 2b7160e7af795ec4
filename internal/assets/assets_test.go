package assets

import (
	"encoding/json"
	"testing"
)

func TestManifestSchemaEmbedded(t *testing.T) {
	data, ok := GetSchema(ManifestSchemaName)
	if !ok {
		t.Fatalf("schema %s not embedded", ManifestSchemaName)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema %s is not valid JSON: %v", ManifestSchemaName, err)
	}
	if doc["title"] != "Toolkit Manifest" {
		t.Errorf("schema title = %v, expected Toolkit Manifest", doc["title"])
	}
}

func TestGetSchemaUnknown(t *testing.T) {
	if _, ok := GetSchema("no-such-schema"); ok {
		t.Error("GetSchema() returned ok for unknown schema")
	}
}

func TestDriftReportTemplateEmbedded(t *testing.T) {
	data, ok := GetTemplate("drift-report.md.hbs")
	if !ok {
		t.Fatal("drift-report.md.hbs not embedded")
	}
	if len(data) == 0 {
		t.Error("drift-report.md.hbs is empty")
	}
}
