package source

import (
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"
)

// ErrInvalidDocument is returned when a snapshot document cannot be decoded.
var ErrInvalidDocument = errors.New("invalid parameter document")

// Document is the JSON form of a snapshot, as served by package serve and stored in S3.
type Document struct {
	Parameters map[string]string `json:"parameters"`
}

// DecodeDocument decodes a Document. A document without a parameters object is invalid.
func DecodeDocument(data []byte) (map[string]string, error) {
	var doc Document

	err := gojson.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if doc.Parameters == nil {
		return nil, fmt.Errorf("%w: missing parameters object", ErrInvalidDocument)
	}

	return doc.Parameters, nil
}

// EncodeDocument encodes values as a Document.
func EncodeDocument(values map[string]string) ([]byte, error) {
	if values == nil {
		values = map[string]string{}
	}

	data, err := gojson.Marshal(Document{Parameters: values})
	if err != nil {
		return nil, fmt.Errorf("encoding parameter document: %w", err)
	}

	return data, nil
}
