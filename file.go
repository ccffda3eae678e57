package keyvalues

import (
	"os"

	"github.com/KimNorgaard/go-keyvalues/errors"
	"github.com/KimNorgaard/go-keyvalues/internal/mmfile"
	"github.com/KimNorgaard/go-keyvalues/internal/textenc"
)

// LoadFile parses the file at path and returns a tree that owns its
// buffer. On unix the file is mapped privately into memory and parsed in
// place; the mapping is released by Tree.Release. Files that need
// transcoding (see Load) are parsed from a converted copy instead.
func LoadFile(path string, opts ...Option) (*Tree, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, &errors.IOError{Op: "open", Path: path, Err: err}
	}
	decoded, copied, err := textenc.Decode(data, o.encoding)
	if err != nil {
		_ = unmap()
		return nil, err
	}
	release := unmap
	if copied {
		if err := unmap(); err != nil {
			return nil, &errors.IOError{Op: "unmap", Path: path, Err: err}
		}
		release = nil
	}

	t := New()
	if err := t.ParseOwned(decoded, release, opts...); err != nil {
		_ = t.Release()
		return nil, err
	}
	return t, nil
}

// SaveFile writes t to the file at path, creating or truncating it.
func SaveFile(path string, t *Tree, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return &errors.IOError{Op: "open", Path: path, Err: err}
	}
	if err := Save(f, t, opts...); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &errors.IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
