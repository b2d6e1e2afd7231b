// Package codec saves and loads ContractData as text files.
//
// Two formats share one shape: JSON (the interchange format, written as
// contract-data.json) and YAML for drafts edited by hand. Imported bytes are
// decoded into a presence-tracking wire shape and validated before a
// ContractData is built, so a failed import never yields a partial value.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mmynk/giftdeed/internal/models"
)

// Format names a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrParse matches every ParseError via errors.Is.
var ErrParse = errors.New("malformed contract data")

// ParseError reports bytes that are not well-formed or do not have the
// expected shape.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s contract data: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Codec converts ContractData to and from bytes.
type Codec interface {
	Export(data models.ContractData) ([]byte, error)
	Import(b []byte) (models.ContractData, error)
	Format() Format
	Extension() string
	ContentType() string
}

// ForFormat returns the codec for f. Empty selects JSON.
func ForFormat(f Format) (Codec, error) {
	switch Format(strings.ToLower(string(f))) {
	case "", FormatJSON:
		return JSON{}, nil
	case FormatYAML, "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// ForFilename picks a codec from a file extension, defaulting to JSON.
func ForFilename(name string) Codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML{}
	default:
		return JSON{}
	}
}

// ExportFilename is the suggested download name for an export in c's format.
func ExportFilename(c Codec) string {
	return "contract-data" + c.Extension()
}
