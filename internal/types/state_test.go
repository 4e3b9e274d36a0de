package types

import "testing"

func TestStateRoundTripsAllFieldKinds(t *testing.T) {
	s := NewState()
	s.Write8(0x42)
	s.Write16(0xBEEF)
	s.Write32(0xDEADBEEF)
	s.WriteBool(true)
	s.WriteBool(false)
	s.WriteData([]byte{1, 2, 3, 4})

	r := StateFromBytes(s.Bytes())
	if got := r.Read8(); got != 0x42 {
		t.Errorf("Read8() = %#02x, want 0x42", got)
	}
	if got := r.Read16(); got != 0xBEEF {
		t.Errorf("Read16() = %#04x, want 0xBEEF", got)
	}
	if got := r.Read32(); got != 0xDEADBEEF {
		t.Errorf("Read32() = %#08x, want 0xDEADBEEF", got)
	}
	if got := r.ReadBool(); got != true {
		t.Errorf("ReadBool() #1 = %v, want true", got)
	}
	if got := r.ReadBool(); got != false {
		t.Errorf("ReadBool() #2 = %v, want false", got)
	}
	buf := make([]byte, 4)
	r.ReadData(buf)
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("ReadData()[%d] = %d, want %d", i, buf[i], want[i])
		}
	}
}

func TestWrite16IsLittleEndian(t *testing.T) {
	s := NewState()
	s.Write16(0x1234)
	got := s.Bytes()
	if got[0] != 0x34 || got[1] != 0x12 {
		t.Errorf("Write16(0x1234) bytes = %#02x %#02x, want 34 12", got[0], got[1])
	}
}

func TestMultipleComponentsShareOneCursorInOrder(t *testing.T) {
	s := NewState()
	s.Write8(1)
	s.Write8(2)
	s.Write8(3)

	r := StateFromBytes(s.Bytes())
	for i, want := range []uint8{1, 2, 3} {
		if got := r.Read8(); got != want {
			t.Errorf("component %d read = %d, want %d", i, got, want)
		}
	}
}
