package cheats

import (
	"testing"

	"github.com/thelolagemann/gomeboy/internal/types"
)

func TestAddGenieAppliesOverride(t *testing.T) {
	var s Set
	// newData=01, addrHex "F000" ^ 0xF000 = 0x0000.
	if err := s.Add("01000F000"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := s.Apply(0x0000, 0x7F); got != 0x01 {
		t.Errorf("Apply(0x0000) = %#02x, want 0x01", got)
	}
	if got := s.Apply(0x0001, 0x7F); got != 0x7F {
		t.Errorf("Apply on an untargeted address changed the byte: %#02x", got)
	}
}

func TestAddGenieAcceptsHyphens(t *testing.T) {
	var s Set
	if err := s.Add("010-00F-000"); err != nil {
		t.Fatalf("Add with hyphens: %v", err)
	}
	if got := s.Apply(0x0000, 0x7F); got != 0x01 {
		t.Errorf("Apply(0x0000) = %#02x, want 0x01", got)
	}
}

func TestAddSharkAppliesOverride(t *testing.T) {
	var s Set
	// bank "00", newData "01", address reordered EFGH=1234 -> code[4:6]="34", code[6:8]="12".
	if err := s.Add("00013412"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := s.Apply(0x1234, 0x00); got != 0x01 {
		t.Errorf("Apply(0x1234) = %#02x, want 0x01", got)
	}
}

func TestAddRejectsBadLength(t *testing.T) {
	var s Set
	if err := s.Add("1234"); err == nil {
		t.Errorf("expected an error for an unrecognised code length")
	}
}

func TestRemoveClearsOnlyMatchingAddress(t *testing.T) {
	var s Set
	if err := s.Add("01000F000"); err != nil { // targets 0x0000
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("00013412"); err != nil { // targets 0x1234
		t.Fatalf("Add: %v", err)
	}
	s.Remove(0x0000)
	if got := s.Apply(0x0000, 0x7F); got != 0x7F {
		t.Errorf("Apply(0x0000) after Remove = %#02x, want unchanged 0x7F", got)
	}
	if got := s.Apply(0x1234, 0x00); got != 0x01 {
		t.Errorf("Remove cleared an unrelated code; Apply(0x1234) = %#02x, want 0x01", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	var s Set
	if err := s.Add("01000F000"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("00013412"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	st := types.NewState()
	s.Save(st)

	var other Set
	other.Load(types.StateFromBytes(st.Bytes()))

	if got := other.Apply(0x0000, 0x7F); got != 0x01 {
		t.Errorf("round-tripped genie code lost: Apply(0x0000) = %#02x", got)
	}
	if got := other.Apply(0x1234, 0x00); got != 0x01 {
		t.Errorf("round-tripped shark code lost: Apply(0x1234) = %#02x", got)
	}
}
