package convert

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/tsawler/deckjson/model"
)

// json is configured for deterministic output: map keys are sorted so the
// same document always serializes to the same bytes.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Marshal serializes a document to JSON. Serialization is pure assembly;
// every value in the document is already fully resolved.
func Marshal(doc *model.Document) ([]byte, error) {
	return json.Marshal(doc)
}

// MarshalIndent serializes a document to indented JSON.
func MarshalIndent(doc *model.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal parses a serialized document back into the model.
func Unmarshal(data []byte) (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
