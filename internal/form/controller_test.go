package form

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/giftdeed/internal/codec"
	"github.com/mmynk/giftdeed/internal/datefmt"
	"github.com/mmynk/giftdeed/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
}

func newController(t *testing.T) *Controller {
	t.Helper()
	return New(WithClock(fixedClock))
}

func TestNew_DefaultState(t *testing.T) {
	c := newController(t)

	want := models.ContractData{
		Gifts:        []models.Gift{{}},
		ContractDate: "2024年03月15日",
	}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("default state (-want +got):\n%s", diff)
	}
	if got := c.ContractDateISO(); got != "2024-03-15" {
		t.Errorf("ContractDateISO = %q", got)
	}
}

func TestSetParty(t *testing.T) {
	c := newController(t)

	steps := []struct {
		role  models.Role
		field models.PartyField
		value string
	}{
		{models.RoleDonor, models.FieldName, "Alice"},
		{models.RoleDonor, models.FieldAddress, "1 Main St"},
		{models.RoleDonee, models.FieldName, "Bob"},
		{models.RoleDonee, models.FieldAddress, "2 Side St"},
	}
	for _, s := range steps {
		if err := c.SetParty(s.role, s.field, s.value); err != nil {
			t.Fatalf("SetParty(%s, %s): %v", s.role, s.field, err)
		}
	}

	got := c.Snapshot()
	if got.Donor != (models.Party{Name: "Alice", Address: "1 Main St"}) {
		t.Errorf("donor: got %+v", got.Donor)
	}
	if got.Donee != (models.Party{Name: "Bob", Address: "2 Side St"}) {
		t.Errorf("donee: got %+v", got.Donee)
	}

	if err := c.SetParty("witness", models.FieldName, "Eve"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown role: expected ErrUnknownField, got %v", err)
	}
	if err := c.SetParty(models.RoleDonor, "phone", "123"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown field: expected ErrUnknownField, got %v", err)
	}
}

func TestSetContractDate(t *testing.T) {
	c := newController(t)

	if err := c.SetContractDate("2025-01-02"); err != nil {
		t.Fatalf("SetContractDate failed: %v", err)
	}
	if got := c.Snapshot().ContractDate; got != "2025年01月02日" {
		t.Errorf("contract date: got %q", got)
	}

	for _, bad := range []string{"", "tomorrow", "2025-02-30", "2025年01月02日"} {
		err := c.SetContractDate(bad)
		if !errors.Is(err, datefmt.ErrFormat) {
			t.Errorf("SetContractDate(%q): expected ErrFormat, got %v", bad, err)
		}
		if got := c.Snapshot().ContractDate; got != "2025年01月02日" {
			t.Errorf("after rejected %q: date changed to %q", bad, got)
		}
	}
}

func TestSetSpecialTerms(t *testing.T) {
	c := newController(t)

	if err := c.SetSpecialTerms("X"); err != nil {
		t.Fatalf("SetSpecialTerms failed: %v", err)
	}
	if _, ok := c.Render().Article(2); !ok {
		t.Error("expected article 2 after setting special terms")
	}

	if err := c.SetSpecialTerms(""); err != nil {
		t.Fatalf("SetSpecialTerms failed: %v", err)
	}
	if _, ok := c.Render().Article(2); ok {
		t.Error("expected article 2 to be omitted after clearing special terms")
	}
}

func TestEdits_RejectInvalidUTF8(t *testing.T) {
	c := newController(t)
	_ = c.SetParty(models.RoleDonor, models.FieldName, "Alice")
	before := c.Snapshot()

	const bad = "bad\xffutf8"
	edits := map[string]func() error{
		"party":         func() error { return c.SetParty(models.RoleDonor, models.FieldName, bad) },
		"gift":          func() error { return c.SetGift(0, bad) },
		"special terms": func() error { return c.SetSpecialTerms(bad) },
	}
	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			if err := edit(); !errors.Is(err, ErrInvalidText) {
				t.Errorf("expected ErrInvalidText, got %v", err)
			}
			if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
				t.Errorf("state changed after rejected edit (-before +after):\n%s", diff)
			}
		})
	}
}

func TestGifts_AddSetRemove(t *testing.T) {
	c := newController(t)

	if err := c.SetGift(0, "A"); err != nil {
		t.Fatalf("SetGift(0): %v", err)
	}
	if i := c.AddGift(); i != 1 {
		t.Errorf("AddGift index = %d, want 1", i)
	}
	if err := c.SetGift(1, "B"); err != nil {
		t.Fatalf("SetGift(1): %v", err)
	}
	if i := c.AddGift(); i != 2 {
		t.Errorf("AddGift index = %d, want 2", i)
	}
	if err := c.SetGift(2, "C"); err != nil {
		t.Fatalf("SetGift(2): %v", err)
	}

	a1, _ := c.Render().Article(1)
	for i, want := range []string{"A", "B", "C"} {
		if a1.Items[i].Seq != i+1 || a1.Items[i].Content != want {
			t.Errorf("item %d: got %+v, want seq %d content %q", i, a1.Items[i], i+1, want)
		}
	}

	if err := c.SetGift(3, "D"); !errors.Is(err, ErrGiftIndex) {
		t.Errorf("SetGift(3): expected ErrGiftIndex, got %v", err)
	}
	if err := c.SetGift(-1, "D"); !errors.Is(err, ErrGiftIndex) {
		t.Errorf("SetGift(-1): expected ErrGiftIndex, got %v", err)
	}

	// Removing the first gift is allowed while others remain.
	if err := c.RemoveGift(0); err != nil {
		t.Fatalf("RemoveGift(0): %v", err)
	}
	want := []models.Gift{{Description: "B"}, {Description: "C"}}
	if diff := cmp.Diff(want, c.Snapshot().Gifts); diff != "" {
		t.Errorf("gifts after remove (-want +got):\n%s", diff)
	}

	if err := c.RemoveGift(5); !errors.Is(err, ErrGiftIndex) {
		t.Errorf("RemoveGift(5): expected ErrGiftIndex, got %v", err)
	}
	if err := c.RemoveGift(1); err != nil {
		t.Fatalf("RemoveGift(1): %v", err)
	}
	if err := c.RemoveGift(0); !errors.Is(err, ErrLastGift) {
		t.Errorf("removing sole gift: expected ErrLastGift, got %v", err)
	}
	if got := c.Snapshot().Gifts; len(got) != 1 || got[0].Description != "B" {
		t.Errorf("sole gift changed: %+v", got)
	}
}

func TestGifts_NeverEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := newController(t)

	for i := 0; i < 1000; i++ {
		n := len(c.Snapshot().Gifts)
		if rng.Intn(2) == 0 {
			c.AddGift()
		} else {
			err := c.RemoveGift(rng.Intn(n))
			if n == 1 && !errors.Is(err, ErrLastGift) {
				t.Fatalf("step %d: removing sole gift returned %v", i, err)
			}
			if n > 1 && err != nil {
				t.Fatalf("step %d: RemoveGift failed with %d gifts: %v", i, n, err)
			}
		}
		if got := len(c.Snapshot().Gifts); got < 1 {
			t.Fatalf("step %d: gifts empty", i)
		}
	}
}

func TestSnapshot_IsIsolated(t *testing.T) {
	c := newController(t)
	_ = c.SetGift(0, "A")

	snap := c.Snapshot()
	snap.Gifts[0].Description = "changed"
	snap.Donor.Name = "changed"

	got := c.Snapshot()
	if got.Gifts[0].Description != "A" || got.Donor.Name != "" {
		t.Errorf("controller state changed through snapshot: %+v", got)
	}
}

func TestExportImport(t *testing.T) {
	src := newController(t)
	_ = src.SetParty(models.RoleDonor, models.FieldName, "Alice")
	_ = src.SetParty(models.RoleDonee, models.FieldName, "Bob")
	_ = src.SetGift(0, "A painting")
	src.AddGift()
	_ = src.SetGift(1, "A vase")
	_ = src.SetSpecialTerms("X")

	b, err := src.Export(codec.JSON{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := New(WithClock(func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }))
	if err := dst.Import(b, codec.JSON{}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if diff := cmp.Diff(src.Snapshot(), dst.Snapshot()); diff != "" {
		t.Errorf("imported state differs (-src +dst):\n%s", diff)
	}
}

func TestImport_MalformedLeavesStateUnchanged(t *testing.T) {
	c := newController(t)
	_ = c.SetParty(models.RoleDonor, models.FieldName, "Alice")
	_ = c.SetGift(0, "A painting")
	before := c.Snapshot()
	beforeBytes, _ := c.Export(codec.JSON{})

	inputs := []string{
		"garbage",
		`{"donor": {"name": "Mallory", "address": ""}}`,
		`{"donor": {"name": "M", "address": ""}, "donee": {"name": "N", "address": ""}, "gifts": [], "contractDate": "2024年03月15日"}`,
		strings.Repeat("{", 100),
	}
	for _, in := range inputs {
		err := c.Import([]byte(in), codec.JSON{})
		if !errors.Is(err, codec.ErrParse) {
			t.Errorf("Import(%.20q): expected ErrParse, got %v", in, err)
		}
		if diff := cmp.Diff(before, c.Snapshot()); diff != "" {
			t.Errorf("state changed after failed import (-before +after):\n%s", diff)
		}
		afterBytes, _ := c.Export(codec.JSON{})
		if string(afterBytes) != string(beforeBytes) {
			t.Errorf("export changed after failed import")
		}
	}
}

func TestRender_Scenario(t *testing.T) {
	c := newController(t)
	_ = c.SetParty(models.RoleDonor, models.FieldName, "Alice")
	_ = c.SetParty(models.RoleDonee, models.FieldName, "Bob")
	_ = c.SetGift(0, "A painting")

	doc := c.Render()

	if !strings.Contains(doc.Intro, "Alice") {
		t.Errorf("intro: %q", doc.Intro)
	}
	a1, _ := doc.Article(1)
	if len(a1.Items) != 1 || a1.Items[0].Seq != 1 || a1.Items[0].Content != "A painting" {
		t.Errorf("items: %+v", a1.Items)
	}
	if len(doc.Signatures) != 2 ||
		doc.Signatures[0].Role != models.RoleDonor || doc.Signatures[0].Name != "Alice" ||
		doc.Signatures[1].Role != models.RoleDonee || doc.Signatures[1].Name != "Bob" {
		t.Errorf("signatures: %+v", doc.Signatures)
	}
}

func TestRestore(t *testing.T) {
	data := models.New("2024年03月15日")
	data.Donor.Name = "Alice"

	c, err := Restore(data)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	data.Donor.Name = "changed"
	if c.Snapshot().Donor.Name != "Alice" {
		t.Error("Restore should copy its input")
	}

	if _, err := Restore(models.ContractData{ContractDate: "2024年03月15日"}); !errors.Is(err, ErrInvalidContract) {
		t.Errorf("no gifts: expected ErrInvalidContract, got %v", err)
	}
	if _, err := Restore(models.New("2024-03-15")); !errors.Is(err, ErrInvalidContract) {
		t.Errorf("iso date: expected ErrInvalidContract, got %v", err)
	}
}
