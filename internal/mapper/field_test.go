package mapper

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `kv:"name"`
	Port     int    `kv:"port,omitempty"`
	Verbose  bool
	Ignored  string `kv:"-"`
	internal string
	Embedded
}

type Embedded struct {
	Extra string
}

func TestCachedFields(t *testing.T) {
	fields := CachedFields(reflect.TypeOf(sample{}))
	require.Equal(t, []Field{
		{Name: "name", Index: []int{0}, Tagged: true},
		{Name: "port", Index: []int{1}, Tagged: true, OmitEmpty: true},
		{Name: "Verbose", Index: []int{2}},
	}, fields)

	again := CachedFields(reflect.TypeOf(sample{}))
	require.Equal(t, fields, again)
}

func TestLookup(t *testing.T) {
	fields := CachedFields(reflect.TypeOf(sample{}))

	f, ok := Lookup(fields, "port")
	require.True(t, ok)
	require.Equal(t, []int{1}, f.Index)

	f, ok = Lookup(fields, "verbose")
	require.True(t, ok, "case-insensitive fallback")
	require.Equal(t, "Verbose", f.Name)

	_, ok = Lookup(fields, "Ignored")
	require.False(t, ok)
}

func TestLookupPrefersExactMatch(t *testing.T) {
	type twins struct {
		Lower string `kv:"key"`
		Upper string `kv:"KEY"`
	}
	fields := CachedFields(reflect.TypeOf(twins{}))

	f, ok := Lookup(fields, "KEY")
	require.True(t, ok)
	require.Equal(t, []int{1}, f.Index)
}

func TestLookupPrefersTagOverFieldName(t *testing.T) {
	type clash struct {
		Mode    string
		Setting string `kv:"mode"`
	}
	fields := CachedFields(reflect.TypeOf(clash{}))

	f, ok := Lookup(fields, "MODE")
	require.True(t, ok)
	require.Equal(t, []int{1}, f.Index)
	require.True(t, f.Tagged)

	f, ok = Lookup(fields, "Mode")
	require.True(t, ok)
	require.Equal(t, []int{0}, f.Index, "exact field name still wins")
}
