package gameboy

import (
	"testing"

	"github.com/thelolagemann/gomeboy/internal/types"
)

func romOnlyImage() []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // ROM only
	rom[0x148] = 0x00 // 32 KiB
	rom[0x149] = 0x00 // no RAM
	// NOP loop at the entry point so a ticked CPU has something valid to execute.
	rom[0x100] = 0x00
	rom[0x101] = 0x18
	rom[0x102] = 0xFE // JR -2
	return rom
}

func cgbImage() []byte {
	rom := romOnlyImage()
	rom[0x143] = 0xC0 // CGB only
	return rom
}

func TestNewRejectsTooShortROM(t *testing.T) {
	_, err := New(make([]byte, 16))
	var ge *Error
	if err == nil {
		t.Fatalf("expected an error for a truncated rom")
	}
	if !As(err, &ge) || ge.Kind != InvalidHeader {
		t.Fatalf("err = %v, want InvalidHeader", err)
	}
}

func TestNewRejectsUnsupportedMBC(t *testing.T) {
	rom := romOnlyImage()
	rom[0x147] = 0xFE // not a recognised cartridge type
	_, err := New(rom)
	var ge *Error
	if !As(err, &ge) || ge.Kind != UnsupportedMBC {
		t.Fatalf("err = %v, want UnsupportedMBC", err)
	}
}

func TestNewRejectsShortROMBody(t *testing.T) {
	rom := romOnlyImage()
	rom[0x148] = 0x01 // header claims 64 KiB, body is still 32 KiB
	_, err := New(rom)
	var ge *Error
	if !As(err, &ge) || ge.Kind != RomSizeMismatch {
		t.Fatalf("err = %v, want RomSizeMismatch", err)
	}
}

func TestNewRejectsBadBootROMSize(t *testing.T) {
	_, err := New(romOnlyImage(), WithBootROM(make([]byte, 42)))
	var ge *Error
	if !As(err, &ge) || ge.Kind != BiosSizeMismatch {
		t.Fatalf("err = %v, want BiosSizeMismatch", err)
	}
}

func TestModelResolvesFromHeader(t *testing.T) {
	gb, err := New(romOnlyImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if gb.Model() != types.ModelDMG {
		t.Errorf("Model() = %v, want DMG for a plain cartridge", gb.Model())
	}

	gb, err = New(cgbImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if gb.Model() != types.ModelCGB {
		t.Errorf("Model() = %v, want CGB for a GBC-flagged cartridge", gb.Model())
	}
}

func TestWithModelOverridesHeader(t *testing.T) {
	gb, err := New(romOnlyImage(), WithModel(types.ModelCGB))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if gb.Model() != types.ModelCGB {
		t.Errorf("Model() = %v, want CGB override", gb.Model())
	}
}

func TestTickAdvancesAndProducesFrames(t *testing.T) {
	gb, err := New(romOnlyImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sawFrame := false
	for i := 0; i < 70224*2; i++ { // 4 dots per Tick: eight frames' worth of dots
		gb.Tick()
		if gb.ConsumeDrawFlag() {
			sawFrame = true
		}
	}
	if !sawFrame {
		t.Errorf("no frame completed after eight frames' worth of ticks")
	}
}

func TestReleaseAllKeysIsIdempotent(t *testing.T) {
	gb, err := New(romOnlyImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gb.KeyDown(KeyA)
	gb.KeyDown(KeyUp)
	gb.ReleaseAllKeys()
	if got := gb.pad.Read(); got&0x0F != 0x0F {
		t.Errorf("joypad register after ReleaseAllKeys = %#02x, want low nibble all set", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	gb, err := New(romOnlyImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 10000; i++ {
		gb.Tick()
	}
	snap := gb.Snapshot()

	restored, err := New(romOnlyImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := restored.LoadSnapshot(snap); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	again := restored.Snapshot()
	if len(snap) != len(again) {
		t.Fatalf("round-tripped snapshot length changed: %d vs %d", len(snap), len(again))
	}
	for i := range snap {
		if snap[i] != again[i] {
			t.Fatalf("round-tripped snapshot differs at byte %d: %#02x vs %#02x", i, snap[i], again[i])
		}
	}
}

func TestLoadSnapshotRejectsBadMagic(t *testing.T) {
	gb, err := New(romOnlyImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = gb.LoadSnapshot([]byte("not a snapshot at all"))
	var ge *Error
	if !As(err, &ge) || ge.Kind != SnapshotCorrupted {
		t.Fatalf("err = %v, want SnapshotCorrupted", err)
	}
}

func TestLoadSnapshotRejectsVersionMismatch(t *testing.T) {
	gb, err := New(romOnlyImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap := gb.Snapshot()
	snap[4] = 0xFF // corrupt the version field
	err = gb.LoadSnapshot(snap)
	var ge *Error
	if !As(err, &ge) || ge.Kind != SnapshotVersionMismatch {
		t.Fatalf("err = %v, want SnapshotVersionMismatch", err)
	}
}

func TestSerialTapObservesSB(t *testing.T) {
	var got []byte
	gb, err := New(romOnlyImage(), WithSerialTap(func(b byte) { got = append(got, b) }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gb.bus.Write(types.SB, 'P')
	if len(got) != 1 || got[0] != 'P' {
		t.Errorf("serial tap = %v, want ['P']", got)
	}
}

func TestCheatOverridesROMRead(t *testing.T) {
	gb, err := New(romOnlyImage())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Game Genie code for "write 0x01 at ROM address 0x0000": newData=01,
	// address hex digits reordered per parseGenie give addrHex "F000",
	// which XORed with 0xF000 yields the target address 0x0000.
	if err := gb.AddCheat("01000F000"); err != nil {
		t.Fatalf("AddCheat: %v", err)
	}
	if got := gb.bus.Read(0x0000); got != 0x01 {
		t.Errorf("cheat-overridden read at 0x0000 = %#02x, want 0x01", got)
	}
	gb.RemoveCheat(0x0000)
	if got := gb.bus.Read(0x0000); got == 0x01 {
		t.Errorf("cheat still applied after RemoveCheat")
	}
}

// As is a tiny errors.As wrapper kept local to the test file so the
// table above reads as plain assertions instead of repeating the
// import everywhere.
func As(err error, target **Error) bool {
	ge, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = ge
	return true
}
