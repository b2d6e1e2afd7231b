// Package datefmt converts contract dates between the ISO calendar form used
// for interchange and the Japanese display form used in the form and document.
package datefmt

import (
	"errors"
	"fmt"
	"time"
)

const (
	// CanonicalLayout is the ISO calendar date, e.g. 2024-03-15.
	CanonicalLayout = "2006-01-02"
	// DisplayLayout is the localized display form, e.g. 2024年03月15日.
	DisplayLayout = "2006年01月02日"
)

// ErrFormat matches every FormatError via errors.Is.
var ErrFormat = errors.New("invalid date format")

// FormatError reports a date string that does not match the expected layout.
type FormatError struct {
	Input  string
	Layout string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("date %q does not match %s: %v", e.Input, e.Layout, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ToDisplay converts an ISO calendar date to the display form.
func ToDisplay(iso string) (string, error) {
	t, err := time.Parse(CanonicalLayout, iso)
	if err != nil {
		return "", &FormatError{Input: iso, Layout: CanonicalLayout, Err: err}
	}
	return t.Format(DisplayLayout), nil
}

// ToCanonical converts a display date back to the ISO calendar form.
func ToCanonical(display string) (string, error) {
	t, err := time.Parse(DisplayLayout, display)
	if err != nil {
		return "", &FormatError{Input: display, Layout: DisplayLayout, Err: err}
	}
	return t.Format(CanonicalLayout), nil
}

// FromTime returns the display form of t's calendar date in t's location.
func FromTime(t time.Time) string {
	return t.Format(DisplayLayout)
}

// Valid reports whether display is a well-formed display date.
func Valid(display string) bool {
	_, err := ToCanonical(display)
	return err == nil
}
