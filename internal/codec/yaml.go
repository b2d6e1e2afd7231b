package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/giftdeed/internal/models"
)

// YAML stores the same shape as JSON in a form that is easier to edit by hand.
type YAML struct{}

var _ Codec = YAML{}

func (YAML) Format() Format      { return FormatYAML }
func (YAML) Extension() string   { return ".yaml" }
func (YAML) ContentType() string { return "application/yaml" }

// Export writes multi-line text as double-quoted scalars. Block scalars
// lose a leading blank line on decode, so they are never emitted.
func (YAML) Export(data models.ContractData) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(contractNode(toWire(data))); err != nil {
		return nil, fmt.Errorf("failed to encode contract data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush contract data: %w", err)
	}
	return buf.Bytes(), nil
}

// contractNode lays out w in the same key order as the JSON export.
func contractNode(w wireContract) *yaml.Node {
	gifts := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, g := range w.Gifts {
		gifts.Content = append(gifts.Content, mappingNode("description", textNode(*g.Description)))
	}
	return mappingNode(
		"donor", partyNode(w.Donor),
		"donee", partyNode(w.Donee),
		"gifts", gifts,
		"contractDate", textNode(*w.ContractDate),
		"specialTerms", textNode(*w.SpecialTerms),
	)
}

func partyNode(p *wireParty) *yaml.Node {
	return mappingNode("name", textNode(*p.Name), "address", textNode(*p.Address))
}

// mappingNode builds a mapping from alternating keys and value nodes.
func mappingNode(pairs ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < len(pairs); i += 2 {
		n.Content = append(n.Content, textNode(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return n
}

// textNode is a string scalar. The encoder still quotes plain values that
// would otherwise read back as another type.
func textNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// Import accepts a single YAML document with known keys only.
func (YAML) Import(b []byte) (models.ContractData, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var w wireContract
	if err := dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty input")
		}
		return models.ContractData{}, &ParseError{Format: FormatYAML, Err: err}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return models.ContractData{}, &ParseError{Format: FormatYAML, Err: errors.New("unexpected data after contract document")}
	}
	if err := w.Validate(); err != nil {
		return models.ContractData{}, &ParseError{Format: FormatYAML, Err: err}
	}
	return w.toModel(), nil
}
