package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mmynk/giftdeed/internal/models"
)

// JSON is the interchange codec. Output is indented with two spaces.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Format() Format      { return FormatJSON }
func (JSON) Extension() string   { return ".json" }
func (JSON) ContentType() string { return "application/json" }

// Export serializes every field of data, including the full gift sequence.
func (JSON) Export(data models.ContractData) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toWire(data)); err != nil {
		return nil, fmt.Errorf("failed to encode contract data: %w", err)
	}
	return buf.Bytes(), nil
}

// Import parses b. Unknown keys, trailing data and missing required fields
// are rejected with a *ParseError.
func (JSON) Import(b []byte) (models.ContractData, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var w wireContract
	if err := dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty input")
		}
		return models.ContractData{}, &ParseError{Format: FormatJSON, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.ContractData{}, &ParseError{Format: FormatJSON, Err: errors.New("unexpected data after contract object")}
	}
	if err := w.Validate(); err != nil {
		return models.ContractData{}, &ParseError{Format: FormatJSON, Err: err}
	}
	return w.toModel(), nil
}
