package models

// Role identifies one of the two parties to the contract.
type Role string

const (
	// RoleDonor is the party giving the gifts (甲).
	RoleDonor Role = "donor"
	// RoleDonee is the party receiving the gifts (乙).
	RoleDonee Role = "donee"
)

// Valid reports whether r names a known party.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleDonee
}

// PartyField identifies an editable field of a Party.
type PartyField string

const (
	FieldName    PartyField = "name"
	FieldAddress PartyField = "address"
)

// Valid reports whether f names a known party field.
func (f PartyField) Valid() bool {
	return f == FieldName || f == FieldAddress
}

// Party represents the donor or the donee.
// Both fields are free text and may be empty while the form is edited.
type Party struct {
	Name    string
	Address string
}

// With returns a copy of p with the given field replaced.
func (p Party) With(field PartyField, value string) Party {
	switch field {
	case FieldName:
		p.Name = value
	case FieldAddress:
		p.Address = value
	}
	return p
}

// Gift represents one item being gifted.
type Gift struct {
	// Description is rendered verbatim as the content of the gift's sub-item.
	Description string
}

// ContractData is the aggregate root of a gift contract.
type ContractData struct {
	Donor Party
	Donee Party

	// Gifts is never empty. Index 0 always exists.
	Gifts []Gift

	// ContractDate is the display form, e.g. "2024年03月15日".
	ContractDate string

	// SpecialTerms is optional. Empty means Article 2 is omitted.
	SpecialTerms string
}

// New returns the default contract: empty parties, one empty gift,
// no special terms and the given display date.
func New(contractDate string) ContractData {
	return ContractData{
		Gifts:        []Gift{{}},
		ContractDate: contractDate,
	}
}

// Clone returns a deep copy of c.
func (c ContractData) Clone() ContractData {
	out := c
	if c.Gifts != nil {
		out.Gifts = make([]Gift, len(c.Gifts))
		copy(out.Gifts, c.Gifts)
	}
	return out
}

// Party returns the party for the given role.
// Unknown roles yield the zero Party.
func (c ContractData) Party(role Role) Party {
	switch role {
	case RoleDonor:
		return c.Donor
	case RoleDonee:
		return c.Donee
	default:
		return Party{}
	}
}

// WithParty returns a copy of c with the party for role replaced.
func (c ContractData) WithParty(role Role, p Party) ContractData {
	out := c.Clone()
	switch role {
	case RoleDonor:
		out.Donor = p
	case RoleDonee:
		out.Donee = p
	}
	return out
}

// HasSpecialTerms reports whether the special terms article is rendered.
func (c ContractData) HasSpecialTerms() bool {
	return c.SpecialTerms != ""
}
