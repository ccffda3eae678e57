package mapper

import (
	"reflect"
	"strings"
	"sync"
)

// Field represents a cached struct field.
type Field struct {
	Name      string
	Index     []int
	Tagged    bool
	OmitEmpty bool
}

// fieldCache caches the fields of each struct type, in declaration order.
var fieldCache sync.Map

// CachedFields uses reflection to parse a struct's tags and returns its
// fields in declaration order. The result is cached per type.
// It skips unexported fields and fields tagged with `kv:"-"`.
func CachedFields(t reflect.Type) []Field {
	if f, ok := fieldCache.Load(t); ok {
		return f.([]Field)
	}

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			// TODO: Promote the fields of embedded structs.
			continue
		}
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("kv")
		if tag == "-" {
			continue
		}

		f := Field{Index: sf.Index}
		name, opts, _ := strings.Cut(tag, ",")
		if name != "" {
			f.Name = name
			f.Tagged = true
		} else {
			f.Name = sf.Name
		}

		for opts != "" {
			var opt string
			opt, opts, _ = strings.Cut(opts, ",")
			if opt == "omitempty" {
				f.OmitEmpty = true
			}
		}
		fields = append(fields, f)
	}

	fieldCache.Store(t, fields)
	return fields
}

// Lookup returns the field named key. An exact match wins, then a
// case-insensitive match on a tag name, then one on a Go field name.
func Lookup(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Name == key {
			return f, true
		}
	}
	var untagged *Field
	for i, f := range fields {
		if !strings.EqualFold(f.Name, key) {
			continue
		}
		if f.Tagged {
			return f, true
		}
		if untagged == nil {
			untagged = &fields[i]
		}
	}
	if untagged != nil {
		return *untagged, true
	}
	return Field{}, false
}
