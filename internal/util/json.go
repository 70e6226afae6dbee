package util

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadJSONFile reads a JSON document from fn into v. Files with a .gz
// extension are decompressed transparently.
func ReadJSONFile(fn string, v any) error {
	in, err := os.Open(fn)
	if err != nil {
		return fmt.Errorf("error opening: %s. %w", fn, err)
	}
	defer in.Close()
	var r io.Reader = in
	if filepath.Ext(fn) == ".gz" {
		gr, err := gzip.NewReader(in)
		if err != nil {
			return fmt.Errorf("gzip: error opening: %s. %w", fn, err)
		}
		defer gr.Close()
		r = gr
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("error parsing: %s. %w", fn, err)
	}
	return nil
}
