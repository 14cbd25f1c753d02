package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/matzehuels/cyclegen/pkg/generator"
)

// fingerprintSpace namespaces document fingerprints so they never collide
// with other v5 UUIDs derived from the same bytes.
var fingerprintSpace = uuid.MustParse("6f1c2a4e-0b7d-5c1e-9a53-3d2f8e41c0aa")

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalResult converts a generation result to indented JSON bytes.
func MarshalResult(res *generator.GenerationResult) ([]byte, error) {
	return MarshalDocument(FromResult(res))
}

// MarshalDocument encodes a Document as indented JSON with a trailing newline.
func MarshalDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocumentTo(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument parses JSON bytes into a Document without converting it.
func UnmarshalDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// UnmarshalResult parses JSON bytes and rebuilds the generation result
// they describe.
func UnmarshalResult(data []byte) (*generator.GenerationResult, error) {
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return nil, err
	}
	return ToResult(doc)
}

// Fingerprint returns a content-derived UUID (version 5) for a document.
// Two documents share a fingerprint exactly when their JSON encodings are
// byte-identical, so it is a cheap determinism check across runs.
func Fingerprint(doc Document) (uuid.UUID, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal document: %w", err)
	}
	return uuid.NewSHA1(fingerprintSpace, data), nil
}

func writeDocumentTo(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}
