package interrupts

import (
	"testing"

	"github.com/thelolagemann/gomeboy/internal/types"
)

func TestNewStartsWithPostBootFlagValue(t *testing.T) {
	c := New()
	if c.ReadIF() != 0xE1 {
		t.Errorf("ReadIF() on a fresh controller = %#02x, want 0xE1", c.ReadIF())
	}
}

func TestRequestAndClear(t *testing.T) {
	c := New()
	c.WriteIF(0)
	c.Request(types.InterruptTimer)
	if c.Flag&types.InterruptTimer == 0 {
		t.Fatalf("Request did not set the flag bit")
	}
	c.Clear(types.InterruptTimer)
	if c.Flag&types.InterruptTimer != 0 {
		t.Errorf("Clear did not clear the flag bit")
	}
}

func TestPendingIgnoresDisabledInterrupts(t *testing.T) {
	c := New()
	c.WriteIF(0)
	c.WriteIE(0)
	c.Request(types.InterruptVBlank)
	if c.Pending() {
		t.Errorf("Pending() = true for a flagged interrupt that isn't enabled in IE")
	}
	c.WriteIE(types.InterruptVBlank)
	if !c.Pending() {
		t.Errorf("Pending() = false once the interrupt is enabled")
	}
}

func TestReadyRequiresIMEEnabled(t *testing.T) {
	c := New()
	c.WriteIE(types.InterruptVBlank)
	c.WriteIF(types.InterruptVBlank)
	c.IME = Disabled
	if c.Ready() {
		t.Errorf("Ready() = true with IME disabled")
	}
	c.IME = Enabled
	if !c.Ready() {
		t.Errorf("Ready() = false with a pending, enabled interrupt and IME enabled")
	}
}

func TestNextVectorPicksHighestPriority(t *testing.T) {
	c := New()
	c.WriteIE(0x1F)
	c.WriteIF(types.InterruptTimer | types.InterruptJoypad)
	addr, bit := c.NextVector()
	if bit != 2 || addr != types.InterruptVectors[2] {
		t.Errorf("NextVector() = (%#04x, %d), want the timer vector (bit 2) over joypad (bit 4)", addr, bit)
	}
}

func TestNextVectorNoneReturnsSentinelBit(t *testing.T) {
	c := New()
	c.WriteIE(0)
	c.WriteIF(0)
	_, bit := c.NextVector()
	if bit != 0xFF {
		t.Errorf("NextVector() bit = %d, want 0xFF when nothing is pending", bit)
	}
}

func TestWakeFromStopTracksJoypadFlagOnly(t *testing.T) {
	c := New()
	c.WriteIF(0)
	if c.WakeFromStop() {
		t.Errorf("WakeFromStop() = true with no flags set")
	}
	c.Request(types.InterruptJoypad)
	if !c.WakeFromStop() {
		t.Errorf("WakeFromStop() = false with the joypad flag set")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := New()
	c.WriteIE(0x15)
	c.WriteIF(0x0A)
	c.IME = Pending

	st := types.NewState()
	c.Save(st)

	other := New()
	other.Load(types.StateFromBytes(st.Bytes()))

	if other.Enable != c.Enable || other.Flag != c.Flag || other.IME != c.IME {
		t.Errorf("round-tripped controller = %+v, want %+v", other, c)
	}
}
