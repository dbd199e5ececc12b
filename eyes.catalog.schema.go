package eyes

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Catalog schema identifiers
const (
	CatalogSchemaID    = "https://github.com/itsatony/go-eyes/catalog.schema.json"
	CatalogSchemaTitle = "eyes pattern catalog"
)

// CatalogSchema returns the JSON schema of a catalog document, indented.
// The schema also validates YAML catalogs once decoded.
func CatalogSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := r.Reflect(&Catalog{})
	schema.ID = jsonschema.ID(CatalogSchemaID)
	schema.Title = CatalogSchemaTitle
	return json.MarshalIndent(schema, "", "  ")
}
