package models

import "testing"

func TestNew(t *testing.T) {
	c := New("2024年03月15日")

	if len(c.Gifts) != 1 {
		t.Fatalf("gifts: expected 1, got %d", len(c.Gifts))
	}
	if c.Gifts[0].Description != "" {
		t.Errorf("gift description: expected empty, got %q", c.Gifts[0].Description)
	}
	if c.ContractDate != "2024年03月15日" {
		t.Errorf("contract date: got %q", c.ContractDate)
	}
	if c.HasSpecialTerms() {
		t.Error("expected no special terms")
	}
}

func TestClone_DoesNotAliasGifts(t *testing.T) {
	orig := New("2024年03月15日")
	orig.Gifts[0].Description = "Watch"

	cp := orig.Clone()
	cp.Gifts[0].Description = "Car"
	cp.Gifts = append(cp.Gifts, Gift{Description: "House"})

	if orig.Gifts[0].Description != "Watch" {
		t.Errorf("original mutated through clone: %q", orig.Gifts[0].Description)
	}
	if len(orig.Gifts) != 1 {
		t.Errorf("original gifts length changed: %d", len(orig.Gifts))
	}
}

func TestWithParty(t *testing.T) {
	c := New("2024年03月15日")

	next := c.WithParty(RoleDonee, c.Party(RoleDonee).With(FieldName, "Bob"))

	if next.Donee.Name != "Bob" {
		t.Errorf("donee name: expected Bob, got %q", next.Donee.Name)
	}
	if c.Donee.Name != "" {
		t.Errorf("receiver mutated: %q", c.Donee.Name)
	}
	if next.Donor != (Party{}) {
		t.Errorf("donor changed unexpectedly: %+v", next.Donor)
	}
}

func TestRoleAndFieldValid(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"donor", true},
		{"donee", true},
		{"witness", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Role(tt.name).Valid(); got != tt.ok {
			t.Errorf("Role(%q).Valid() = %v, want %v", tt.name, got, tt.ok)
		}
	}

	if !FieldName.Valid() || !FieldAddress.Valid() {
		t.Error("expected name and address to be valid fields")
	}
	if PartyField("phone").Valid() {
		t.Error("expected phone to be invalid")
	}
}
