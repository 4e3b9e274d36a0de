package joypad

import (
	"testing"

	"github.com/thelolagemann/gomeboy/internal/interrupts"
	"github.com/thelolagemann/gomeboy/internal/types"
)

func TestReadDefaultsToAllReleased(t *testing.T) {
	j := New(interrupts.New())
	j.Write(0x30) // select neither row
	if got := j.Read(); got&0x0F != 0x0F {
		t.Errorf("Read() low nibble = %#01x, want 0xF (all released)", got&0x0F)
	}
}

func TestPressClearsSelectedRowBit(t *testing.T) {
	j := New(interrupts.New())
	j.Write(0x20) // select directions (bit 4 low)
	j.Press(Down)
	if got := j.Read(); got&(1<<bitDown) != 0 {
		t.Errorf("Down bit still set after Press: %#02x", got)
	}
	j.Write(0x10) // select actions
	if got := j.Read(); got&0x0F != 0x0F {
		t.Errorf("action row should read all released, got %#01x", got&0x0F)
	}
}

func TestPressRaisesInterruptOnlyWhenRowSelected(t *testing.T) {
	irq := interrupts.New()
	j := New(irq)
	irq.Flag = 0

	j.Write(0x10) // deselect directions (bit 4 high), select actions irrelevant here
	j.Press(Up)
	if irq.Flag&types.InterruptJoypad != 0 {
		t.Errorf("joypad interrupt fired while the direction row was deselected")
	}

	j.Write(0x20) // select directions
	j.Press(Down)
	if irq.Flag&types.InterruptJoypad == 0 {
		t.Errorf("joypad interrupt did not fire on a high-to-low edge of a selected row")
	}
}

func TestPressIsNotRetriggeredWhileHeld(t *testing.T) {
	irq := interrupts.New()
	j := New(irq)
	j.Write(0x20) // select directions
	j.Press(Down)
	irq.Flag &^= types.InterruptJoypad
	j.Press(Down) // already low; no new edge
	if irq.Flag&types.InterruptJoypad != 0 {
		t.Errorf("joypad interrupt re-fired for an already-pressed button")
	}
}

func TestReleaseAllResetsBothRows(t *testing.T) {
	j := New(interrupts.New())
	j.Write(0x00) // select both rows
	j.Press(A)
	j.Press(Left)
	j.ReleaseAll()
	if got := j.Read(); got&0x0F != 0x0F {
		t.Errorf("Read() after ReleaseAll = %#01x, want 0xF", got&0x0F)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	j := New(interrupts.New())
	j.Write(0x10)
	j.Press(Up)

	st := types.NewState()
	j.Save(st)

	other := New(interrupts.New())
	other.Load(types.StateFromBytes(st.Bytes()))

	if other.Read() != j.Read() {
		t.Errorf("round-tripped Read() = %#02x, want %#02x", other.Read(), j.Read())
	}
}
