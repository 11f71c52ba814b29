package convert

import "testing"

func TestLengthASCII(t *testing.T) {
	if got := Length("abc"); got != 3 {
		t.Fatalf("Length(abc) = %d, want 3", got)
	}
}

func TestLengthSupplementaryPlane(t *testing.T) {
	// U+1D306 TETRAGRAM FOR CENTRE is outside the BMP and requires a
	// UTF-16 surrogate pair, so it counts as 2 code units, not 1.
	s := "\U0001D306"
	if got := Length(s); got != 2 {
		t.Fatalf("Length(tetragram) = %d, want 2", got)
	}
}

func TestCharAtSplitsSurrogatePair(t *testing.T) {
	s := "\U0001D306"
	first, ok := CharAt(s, 0)
	if !ok {
		t.Fatal("CharAt(0) not ok")
	}
	second, ok := CharAt(s, 1)
	if !ok {
		t.Fatal("CharAt(1) not ok")
	}
	if first == second {
		t.Fatal("expected the two surrogate halves to differ")
	}

	units := CodeUnits(s)
	if len(units) != 2 || units[0] < 0xD800 || units[0] > 0xDBFF || units[1] < 0xDC00 || units[1] > 0xDFFF {
		t.Fatalf("unexpected surrogate pair: %v", units)
	}
}

func TestCharAtOutOfRange(t *testing.T) {
	if _, ok := CharAt("abc", 3); ok {
		t.Fatal("expected out-of-range CharAt to report ok=false")
	}
	if _, ok := CharAt("abc", -1); ok {
		t.Fatal("expected negative index CharAt to report ok=false")
	}
}

func TestCharCodeAtASCII(t *testing.T) {
	unit, ok := CharCodeAt("A", 0)
	if !ok || unit != 0x41 {
		t.Fatalf("CharCodeAt(A, 0) = (%d, %v), want (0x41, true)", unit, ok)
	}
}
