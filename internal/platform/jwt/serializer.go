package jwt

import (
	"bytes"
	"encoding/json"
)

// Serializer encodes a value into the JSON text that gets embedded in a token segment.
type Serializer interface {
	Marshal(v any) ([]byte, error)
}

// SerializerFunc adapts an ordinary function to the Serializer interface.
type SerializerFunc func(v any) ([]byte, error)

func (f SerializerFunc) Marshal(v any) ([]byte, error) {
	return f(v)
}

// JSONSerializer writes compact JSON with map keys in sorted order, so equal claims
// always produce the same bytes. HTML characters are left unescaped.
var JSONSerializer = SerializerFunc(func(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
})
