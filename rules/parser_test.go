package rules

import "testing"

func mask(counts ...int) uint32 {
	var m uint32
	for _, c := range counts {
		m |= 1 << uint(c)
	}
	return m
}

func TestParseFlags(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"1-3,5", mask(1, 2, 3, 5)},
		{"4", mask(4)},
		{"2, 3", mask(2, 3)},
		{"0", 0},
		{"30", 0},
		{"0-3", mask(1, 2, 3)},
		{"24-40", mask(24, 25, 26)},
		{"1-2-3", mask(1, 2, 3)},
		{"5-7-9", mask(5, 6, 7, 9)},
		{"3-1", 0},
		{"a,b;6 x 8", mask(6, 8)},
		{"-4", mask(4)},
		{"26", mask(26)},
		{"1 - 3", mask(1, 2, 3)},
		{"1 -3", mask(1, 2, 3)},
		{"1- 3", mask(1, 2, 3)},
		{"1,-3", mask(1, 2, 3)},
		{"2, 4 -6, 9", mask(2, 4, 5, 6, 9)},
		{"99999999999999999999", 0},
	}
	for _, c := range cases {
		if got := ParseFlags(c.in); got != c.want {
			t.Fatalf("ParseFlags(%q) = %b, want %b", c.in, got, c.want)
		}
	}
}

func TestParseFlagsRange(t *testing.T) {
	if got := ParseFlagsRange("0-2", 0, 26); got != mask(0, 1, 2) {
		t.Fatalf("expected 0..2 with lo 0, got %b", got)
	}
	if got := ParseFlagsRange("0-40", 0, 100); got != 0xffffffff {
		t.Fatalf("expected hi clamped to 31, got %b", got)
	}
	if got := ParseFlagsRange("5,9", 6, 8); got != 0 {
		t.Fatalf("expected singles outside the range dropped, got %b", got)
	}
}
