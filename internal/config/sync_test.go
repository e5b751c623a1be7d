// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests verify Go struct JSON tags match CUE schema field names.
// They catch misalignments at CI time, preventing silent parsing failures.

// extractCUEFields extracts the top-level field names of a CUE struct
// definition. Nested struct fields are not included.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fieldName := strings.TrimSuffix(sel.String(), "?")
		fields[fieldName] = true
	}
	return fields
}

// extractGoJSONTags extracts the JSON field names of a Go struct.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	tags := make(map[string]bool)
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		tags[name] = true
	}
	return tags
}

func schemaDefinition(t *testing.T) cue.Value {
	t.Helper()

	val := cuecontext.New().CompileString(configSchema)
	if val.Err() != nil {
		t.Fatalf("failed to compile embedded schema: %v", val.Err())
	}
	def := val.LookupPath(cue.ParsePath("#Config"))
	if def.Err() != nil {
		t.Fatalf("schema definition #Config not found: %v", def.Err())
	}
	return def
}

// nestedField resolves an optional struct field by name; LookupPath
// cannot address optional fields directly.
func nestedField(t *testing.T, parent cue.Value, name string) cue.Value {
	t.Helper()

	iter, err := parent.Fields(cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}
	for iter.Next() {
		if strings.TrimSuffix(iter.Selector().String(), "?") == name {
			return iter.Value()
		}
	}
	t.Fatalf("schema field %q not found", name)
	return cue.Value{}
}

func TestSchemaMatchesConfigStruct(t *testing.T) {
	t.Parallel()

	root := schemaDefinition(t)
	tests := []struct {
		name     string
		cueValue cue.Value
		goType   reflect.Type
	}{
		{"top level", root, reflect.TypeOf(Config{})},
		{"cache", nestedField(t, root, "cache"), reflect.TypeOf(CacheConfig{})},
		{"fetch", nestedField(t, root, "fetch"), reflect.TypeOf(FetchConfig{})},
		{"serve", nestedField(t, root, "serve"), reflect.TypeOf(ServeConfig{})},
		{"ui", nestedField(t, root, "ui"), reflect.TypeOf(UIConfig{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cueFields := extractCUEFields(t, tt.cueValue)
			goTags := extractGoJSONTags(t, tt.goType)

			for field := range cueFields {
				if !goTags[field] {
					t.Errorf("CUE field %q has no matching Go json tag in %s", field, tt.goType)
				}
			}
			for tag := range goTags {
				if !cueFields[tag] {
					t.Errorf("Go json tag %q has no matching CUE field in %s", tag, tt.goType)
				}
			}
		})
	}
}
