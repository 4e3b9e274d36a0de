package types

// Bit returns a mask with only bit n set.
func Bit(n uint8) uint8 { return 1 << n }

// Set returns v with bit n set.
func Set(v uint8, n uint8) uint8 { return v | Bit(n) }

// Reset returns v with bit n cleared.
func Reset(v uint8, n uint8) uint8 { return v &^ Bit(n) }

// IsSet reports whether bit n of v is set.
func IsSet(v uint8, n uint8) bool { return v&Bit(n) != 0 }
