package heap

import (
	"math"
	"testing"
)

func TestSmallIntegerRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, smallIntMax, smallIntMin} {
		v := FromSafeInt64(n)
		if v.Tag() != TagSmallInteger {
			t.Fatalf("FromSafeInt64(%d): got tag %s", n, v.Tag())
		}
		if got := v.AsSafeInt64(); got != n {
			t.Fatalf("FromSafeInt64(%d): round-trip got %d", n, got)
		}
	}
}

func TestFromFloat64CanonicalizesIntegers(t *testing.T) {
	v := FromFloat64WithHeap(3.0, failHeapAlloc(t))
	if v.Tag() != TagSmallInteger {
		t.Fatalf("integral float 3.0 must canonicalize to SmallInteger, got %s", v.Tag())
	}
	if v.AsSafeInt64() != 3 {
		t.Fatalf("got %d, want 3", v.AsSafeInt64())
	}
}

func TestNegativeZeroStaysDistinctFromPositiveZero(t *testing.T) {
	pos := FromFloat64WithHeap(0.0, failHeapAlloc(t))
	neg := FromFloat64WithHeap(math.Copysign(0, -1), failHeapAlloc(t))

	if pos.Tag() != TagSmallInteger {
		t.Fatalf("+0 should canonicalize to SmallInteger, got %s", pos.Tag())
	}
	if neg.Tag() != TagSmallFloat {
		t.Fatalf("-0 must not canonicalize to SmallInteger (would merge with +0), got %s", neg.Tag())
	}
	if neg.AsSmallFloat() != 0 || !math.Signbit(neg.AsSmallFloat()) {
		t.Fatalf("-0 payload lost its sign bit")
	}
	if pos.StrictEqualsInline(neg) {
		t.Fatalf("+0 and -0 must not be StrictEqualsInline-equal across tags")
	}
}

func TestNaNIsCanonicalAndSmallFloat(t *testing.T) {
	v1 := FromFloat64WithHeap(math.NaN(), failHeapAlloc(t))
	v2 := FromFloat64WithHeap(math.Float64frombits(0x7FF8000000000001), failHeapAlloc(t))

	if v1.Tag() != TagSmallFloat || v2.Tag() != TagSmallFloat {
		t.Fatalf("NaN must be representable as SmallFloat, got %s and %s", v1.Tag(), v2.Tag())
	}
	if v1.bits != v2.bits {
		t.Fatalf("two different NaN payloads must canonicalize to the same bit pattern")
	}
}

func TestSmallBigIntBounds(t *testing.T) {
	if !FitsSmallBigInt(smallBigIntMax) || !FitsSmallBigInt(smallBigIntMin) {
		t.Fatalf("boundary values must fit SmallBigInt")
	}
	if FitsSmallBigInt(smallBigIntMax + 1) {
		t.Fatalf("smallBigIntMax+1 must not fit SmallBigInt")
	}
}

func TestSmallStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "abcdefg"} {
		v := FromSmallString(s)
		if got := v.SmallStringValue(); got != s {
			t.Fatalf("FromSmallString(%q): round-trip got %q", s, got)
		}
	}
}

func TestFromSmallStringPanicsOnOverlong(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an 8-byte string")
		}
	}()
	FromSmallString("abcdefgh")
}

func TestStrictEqualsInlineAcrossNumberTags(t *testing.T) {
	si := FromSafeInt64(2)
	sf := Value{tag: TagSmallFloat, bits: math.Float64bits(2.0)}
	if si.StrictEqualsInline(sf) {
		t.Fatalf("a SmallInteger and a SmallFloat must never compare equal, by the canonicalization invariant")
	}
}

func failHeapAlloc(t *testing.T) func(float64) Value {
	return func(f float64) Value {
		t.Fatalf("unexpected heap allocation for %v", f)

		return Value{}
	}
}
