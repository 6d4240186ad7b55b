package output

import (
	"encoding/json"
	"io"
)

// PrintJSONL writes v in JSON Lines format: one line per element when v is an
// array, a single line otherwise. Report downloads are printed this way.
func PrintJSONL(w io.Writer, v any) error {
	jw := NewJSONLWriter(w)
	items, ok := v.([]any)
	if !ok {
		return jw.Write(v)
	}
	for _, item := range items {
		if err := jw.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// JSONLWriter streams individual JSON values one per line.
type JSONLWriter struct {
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONLWriter that writes to w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{enc: enc}
}

// Write encodes a single value as one JSON line.
func (jw *JSONLWriter) Write(v any) error {
	return jw.enc.Encode(v)
}
