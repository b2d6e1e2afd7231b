package codec

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mmynk/giftdeed/internal/datefmt"
	"github.com/mmynk/giftdeed/internal/models"
)

// wireContract is the serialized shape shared by all formats.
// Pointer fields distinguish a missing key from an empty value.
type wireContract struct {
	Donor        *wireParty `json:"donor" yaml:"donor"`
	Donee        *wireParty `json:"donee" yaml:"donee"`
	Gifts        []wireGift `json:"gifts" yaml:"gifts"`
	ContractDate *string    `json:"contractDate" yaml:"contractDate"`
	SpecialTerms *string    `json:"specialTerms,omitempty" yaml:"specialTerms,omitempty"`
}

type wireParty struct {
	Name    *string `json:"name" yaml:"name"`
	Address *string `json:"address" yaml:"address"`
}

type wireGift struct {
	Description *string `json:"description" yaml:"description"`
}

func (w wireContract) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Donor, validation.NotNil),
		validation.Field(&w.Donee, validation.NotNil),
		validation.Field(&w.Gifts, validation.Required.Error("must contain at least one gift")),
		validation.Field(&w.ContractDate, validation.NotNil, validation.By(displayDate)),
	)
}

func (p wireParty) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NotNil),
		validation.Field(&p.Address, validation.NotNil),
	)
}

func (g wireGift) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Description, validation.NotNil),
	)
}

// displayDate accepts only dates that convert back to ISO form.
func displayDate(value interface{}) error {
	var s string
	switch v := value.(type) {
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	case string:
		s = v
	default:
		return errors.New("must be a string")
	}
	if !datefmt.Valid(s) {
		return errors.New("must be a date like 2024年03月15日")
	}
	return nil
}

func toWire(data models.ContractData) wireContract {
	gifts := make([]wireGift, len(data.Gifts))
	for i, g := range data.Gifts {
		gifts[i] = wireGift{Description: strPtr(g.Description)}
	}
	return wireContract{
		Donor:        &wireParty{Name: strPtr(data.Donor.Name), Address: strPtr(data.Donor.Address)},
		Donee:        &wireParty{Name: strPtr(data.Donee.Name), Address: strPtr(data.Donee.Address)},
		Gifts:        gifts,
		ContractDate: strPtr(data.ContractDate),
		SpecialTerms: strPtr(data.SpecialTerms),
	}
}

// toModel builds a ContractData from a wire value that passed Validate.
func (w wireContract) toModel() models.ContractData {
	gifts := make([]models.Gift, len(w.Gifts))
	for i, g := range w.Gifts {
		gifts[i] = models.Gift{Description: *g.Description}
	}
	data := models.ContractData{
		Donor:        models.Party{Name: *w.Donor.Name, Address: *w.Donor.Address},
		Donee:        models.Party{Name: *w.Donee.Name, Address: *w.Donee.Address},
		Gifts:        gifts,
		ContractDate: *w.ContractDate,
	}
	if w.SpecialTerms != nil {
		data.SpecialTerms = *w.SpecialTerms
	}
	return data
}

func strPtr(s string) *string { return &s }
