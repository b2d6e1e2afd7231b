// Package form owns the live contract being edited and mediates every change
// to it.
//
// A Controller holds exactly one ContractData. Each edit clones the current
// value, applies the change to the clone and swaps it in; callers only ever
// receive clones, so a snapshot handed to the codec or the renderer never
// changes under them.
package form

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mmynk/giftdeed/internal/codec"
	"github.com/mmynk/giftdeed/internal/datefmt"
	"github.com/mmynk/giftdeed/internal/document"
	"github.com/mmynk/giftdeed/internal/models"
)

var (
	// ErrLastGift is returned when removing a gift would leave none.
	ErrLastGift = errors.New("at least one gift is required")
	// ErrGiftIndex is returned for a gift index outside the sequence.
	ErrGiftIndex = errors.New("gift index out of range")
	// ErrUnknownField is returned for an unknown party role or field.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidText is returned for text that is not valid UTF-8.
	ErrInvalidText = errors.New("text is not valid UTF-8")
	// ErrInvalidContract is returned by Restore for values breaking the model invariants.
	ErrInvalidContract = errors.New("invalid contract data")
)

// Controller owns a single ContractData and applies edits to it.
type Controller struct {
	mu   sync.Mutex
	data models.ContractData
}

type options struct {
	clock func() time.Time
}

// Option configures a Controller.
type Option func(*options)

// WithClock sets the source of the default contract date.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// New creates a Controller in the default state: empty parties, one empty
// gift, no special terms and today's date.
func New(opts ...Option) *Controller {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{data: models.New(datefmt.FromTime(o.clock()))}
}

// Restore creates a Controller that owns a copy of data.
func Restore(data models.ContractData) (*Controller, error) {
	if len(data.Gifts) == 0 {
		return nil, fmt.Errorf("%w: no gifts", ErrInvalidContract)
	}
	if !datefmt.Valid(data.ContractDate) {
		return nil, fmt.Errorf("%w: contract date %q", ErrInvalidContract, data.ContractDate)
	}
	return &Controller{data: data.Clone()}, nil
}

// Snapshot returns a copy of the current contract.
func (c *Controller) Snapshot() models.ContractData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// ContractDateISO returns the contract date in ISO form for date inputs.
func (c *Controller) ContractDateISO() string {
	iso, err := datefmt.ToCanonical(c.Snapshot().ContractDate)
	if err != nil {
		// Unreachable while the date invariant holds.
		slog.Error("Stored contract date is not convertible", "error", err)
		return ""
	}
	return iso
}

// update applies fn to a clone of the current value and adopts the result
// only when fn succeeds.
func (c *Controller) update(fn func(next *models.ContractData) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.data.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	c.data = next
	return nil
}

// SetParty sets the name or address of the donor or the donee.
func (c *Controller) SetParty(role models.Role, field models.PartyField, value string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: party %q", ErrUnknownField, role)
	}
	if !field.Valid() {
		return fmt.Errorf("%w: party field %q", ErrUnknownField, field)
	}
	if err := checkText(value); err != nil {
		return err
	}
	return c.update(func(next *models.ContractData) error {
		*next = next.WithParty(role, next.Party(role).With(field, value))
		return nil
	})
}

// SetContractDate sets the contract date from an ISO calendar date.
// Input that is not a date is rejected and the previous date kept.
func (c *Controller) SetContractDate(iso string) error {
	display, err := datefmt.ToDisplay(iso)
	if err != nil {
		return err
	}
	return c.update(func(next *models.ContractData) error {
		next.ContractDate = display
		return nil
	})
}

// SetSpecialTerms sets the special terms. Empty removes Article 2.
func (c *Controller) SetSpecialTerms(value string) error {
	if err := checkText(value); err != nil {
		return err
	}
	return c.update(func(next *models.ContractData) error {
		next.SpecialTerms = value
		return nil
	})
}

// SetGift sets the description of the gift at index.
func (c *Controller) SetGift(index int, description string) error {
	if err := checkText(description); err != nil {
		return err
	}
	return c.update(func(next *models.ContractData) error {
		if index < 0 || index >= len(next.Gifts) {
			return fmt.Errorf("%w: %d of %d", ErrGiftIndex, index, len(next.Gifts))
		}
		next.Gifts[index].Description = description
		return nil
	})
}

// AddGift appends an empty gift and returns its index.
func (c *Controller) AddGift() int {
	var index int
	_ = c.update(func(next *models.ContractData) error {
		next.Gifts = append(next.Gifts, models.Gift{})
		index = len(next.Gifts) - 1
		return nil
	})
	return index
}

// RemoveGift removes the gift at index. The sole remaining gift cannot be
// removed.
func (c *Controller) RemoveGift(index int) error {
	return c.update(func(next *models.ContractData) error {
		if index < 0 || index >= len(next.Gifts) {
			return fmt.Errorf("%w: %d of %d", ErrGiftIndex, index, len(next.Gifts))
		}
		if len(next.Gifts) == 1 {
			return ErrLastGift
		}
		next.Gifts = append(next.Gifts[:index], next.Gifts[index+1:]...)
		return nil
	})
}

// checkText rejects text the codecs cannot write back unchanged.
// encoding/json replaces invalid UTF-8 with U+FFFD.
func checkText(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %.20q", ErrInvalidText, s)
	}
	return nil
}

// Export serializes the current contract with cd. Text in the contract is
// always valid UTF-8, so the export reads back unchanged.
func (c *Controller) Export(cd codec.Codec) ([]byte, error) {
	return cd.Export(c.Snapshot())
}

// Import replaces the whole contract with the one parsed from b.
// On failure the current contract is left exactly as it was.
func (c *Controller) Import(b []byte, cd codec.Codec) error {
	data, err := cd.Import(b)
	if err != nil {
		return err
	}
	return c.update(func(next *models.ContractData) error {
		*next = data
		return nil
	})
}

// Render lays out the current contract as a document.
func (c *Controller) Render() document.Document {
	return document.Render(c.Snapshot())
}
