package eyes

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// patternColumns is the column list shared by the SQL backends.
const patternColumns = `id, name, template, types, fields, description, tags,
	       version, created_at, updated_at, created_by`

// encodedLists holds the JSON encodings of a pattern's list fields.
type encodedLists struct {
	types  []byte
	fields []byte
	tags   []byte
}

// encodeLists marshals the list fields of p. Nil lists encode as "[]".
func encodeLists(p *StoredPattern) (encodedLists, error) {
	var out encodedLists
	var err error
	if out.types, err = marshalList(p.Types); err != nil {
		return out, err
	}
	if out.fields, err = marshalList(p.Fields); err != nil {
		return out, err
	}
	out.tags, err = marshalList(p.Tags)
	return out, err
}

func marshalList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

// decodeLists fills the list fields of p from their JSON encodings.
// Empty arrays decode to nil.
func decodeLists(p *StoredPattern, types, fields, tags []byte) error {
	for _, col := range []struct {
		name string
		data []byte
		dst  *[]string
	}{
		{"types", types, &p.Types},
		{"fields", fields, &p.Fields},
		{"tags", tags, &p.Tags},
	} {
		if len(col.data) == 0 || string(col.data) == "null" {
			continue
		}
		var list []string
		if err := json.Unmarshal(col.data, &list); err != nil {
			return fmt.Errorf("%s: %s: %w", ErrMsgStorageUnmarshalFailed, col.name, err)
		}
		if len(list) > 0 {
			*col.dst = list
		}
	}
	return nil
}

// nullString converts an empty string to sql.NullString.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
