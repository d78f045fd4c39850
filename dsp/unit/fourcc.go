package unit

import "fmt"

// FourCC is a four-character component code such as "dlrh".
type FourCC [4]byte

// ParseFourCC converts s into a FourCC. s must be exactly four printable
// ASCII bytes.
func ParseFourCC(s string) (FourCC, error) {
	var c FourCC
	if len(s) != 4 {
		return c, fmt.Errorf("%w: %q has length %d", ErrInvalidFourCC, s, len(s))
	}
	for i := 0; i < 4; i++ {
		b := s[i]
		if b < 0x20 || b > 0x7e {
			return c, fmt.Errorf("%w: %q has non-printable byte at %d", ErrInvalidFourCC, s, i)
		}
		c[i] = b
	}
	return c, nil
}

// MustFourCC is like ParseFourCC but panics on error.
func MustFourCC(s string) FourCC {
	c, err := ParseFourCC(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the four characters of the code.
func (c FourCC) String() string {
	return string(c[:])
}

// Uint32 packs the code big-endian, the OSType layout hosts use.
func (c FourCC) Uint32() uint32 {
	return uint32(c[0])<<24 | uint32(c[1])<<16 | uint32(c[2])<<8 | uint32(c[3])
}

// IsZero reports whether c is the zero code.
func (c FourCC) IsZero() bool {
	return c == FourCC{}
}
