package unit

import (
	"errors"
	"testing"
)

func TestParseFourCC(t *testing.T) {
	c, err := ParseFourCC("dlrh")
	if err != nil {
		t.Fatalf("ParseFourCC() error = %v", err)
	}
	if c.String() != "dlrh" {
		t.Fatalf("String() = %q", c.String())
	}
	if got, want := c.Uint32(), uint32(0x646c7268); got != want {
		t.Fatalf("Uint32() = %#x, want %#x", got, want)
	}
}

func TestParseFourCCRejects(t *testing.T) {
	for _, s := range []string{"", "abc", "abcde", "ab\x00c", "ab\x7fc"} {
		if _, err := ParseFourCC(s); !errors.Is(err, ErrInvalidFourCC) {
			t.Fatalf("ParseFourCC(%q) error = %v, want ErrInvalidFourCC", s, err)
		}
	}
}

func TestMustFourCCPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustFourCC("toolong")
}
