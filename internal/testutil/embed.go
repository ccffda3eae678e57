package testutil

import (
	"embed"
	"fmt"
	"io/fs"
)

// TestdataFS holds the embedded KeyValues fixtures shared by the tests.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData returns a fresh copy of an embedded fixture. The copy may be
// handed to the in-place parser.
func ReadTestData(name string) ([]byte, error) {
	path := fmt.Sprintf("testdata/%s", name)
	data, err := fs.ReadFile(TestdataFS, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}
