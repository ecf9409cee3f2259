package wizard

import (
	"reflect"
	"strings"
)

// Schema describes the fields a step's validation rule governs.
type Schema interface {
	Fields() []string
}

// FieldSet is a Schema listing its field paths literally.
type FieldSet []string

// Fields implements Schema.
func (f FieldSet) Fields() []string {
	out := make([]string, len(f))
	copy(out, f)
	return out
}

// SchemaOf enumerates the exported fields of a section struct, in declaration
// order. Fields of embedded structs are qualified by the embedded type name,
// matching the namespace the validator reports. A non-struct section yields
// an empty set.
func SchemaOf(section any) FieldSet {
	t := reflect.TypeOf(section)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return FieldSet{}
	}
	return collectFields(t, "")
}

func collectFields(t reflect.Type, prefix string) FieldSet {
	fields := make(FieldSet, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			fields = append(fields, collectFields(f.Type, prefix+f.Name+".")...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		fields = append(fields, prefix+f.Name)
	}
	return fields
}

// FieldForJSON resolves a JSON key to the field path the form's errors use,
// so errors reported by a remote API can be pinned to the right field.
func FieldForJSON(values any, key string) (string, bool) {
	t := reflect.TypeOf(values)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || key == "" {
		return "", false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == key || (name == "" && strings.EqualFold(f.Name, key)) {
			return f.Name, true
		}
	}
	return "", false
}
