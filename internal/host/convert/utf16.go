package convert

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf16BE is the codec used for the transcode step. Endianness is
// irrelevant to callers (every unit is immediately reassembled into a
// uint16), so big-endian with no BOM handling is the simplest choice.
var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// CodeUnits transcodes s, a well-formed-UTF-8 Go string, into the
// sequence of UTF-16 code units ECMAScript's String exotic object
// indexes by (§9), using x/text's UTF-16 encoder. If the encoder reports
// an error, CodeUnits falls back to wtf8CodeUnits.
func CodeUnits(s string) []uint16 {
	b, _, err := transform.Bytes(utf16BE.NewEncoder(), []byte(s))
	if err != nil {
		return wtf8CodeUnits(s)
	}

	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}

	return units
}

// Length reports the UTF-16 length of s, the value String.prototype.length
// must return (§8's round-trip/boundary properties).
func Length(s string) int { return len(CodeUnits(s)) }

// CharAt returns the single-code-unit substring at UTF-16 index idx,
// re-encoded as a (possibly WTF-8, if idx names one half of a surrogate
// pair) Go string, or ok == false if idx is out of range. This is the
// core of String.prototype.charAt/[] indexing.
func CharAt(s string, idx int) (result string, ok bool) {
	units := CodeUnits(s)
	if idx < 0 || idx >= len(units) {
		return "", false
	}

	return wtf8EncodeUnit(units[idx]), true
}

// CharCodeAt returns the UTF-16 code unit at idx, or ok == false if idx
// is out of range (String.prototype.charCodeAt).
func CharCodeAt(s string, idx int) (unit uint16, ok bool) {
	units := CodeUnits(s)
	if idx < 0 || idx >= len(units) {
		return 0, false
	}

	return units[idx], true
}

// wtf8EncodeUnit encodes a single UTF-16 code unit as WTF-8: identical to
// UTF-8 for non-surrogate units, and the otherwise-disallowed 3-byte
// encoding for a lone surrogate half (0xD800-0xDFFF), which is exactly
// what lets a single charAt result round-trip through HeapString even
// when it names one half of a surrogate pair.
func wtf8EncodeUnit(u uint16) string {
	switch {
	case u < 0x80:
		return string([]byte{byte(u)})
	case u < 0x800:
		return string([]byte{
			byte(0xC0 | u>>6),
			byte(0x80 | u&0x3F),
		})
	default:
		return string([]byte{
			byte(0xE0 | u>>12),
			byte(0x80 | (u>>6)&0x3F),
			byte(0x80 | u&0x3F),
		})
	}
}

// wtf8CodeUnits is the fallback path for input x/text's strict UTF-16
// encoder rejects: a WTF-8 string already containing an encoded lone
// surrogate (one of HeapString's legal internal states per §9). It walks
// the WTF-8 bytes by hand, decoding each 1-3 byte run (surrogates and the
// entire BMP never need more than 3 bytes) and splitting any
// supplementary-plane rune back into its UTF-16 surrogate pair.
func wtf8CodeUnits(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	b := []byte(s)
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			r := uint16(c&0x1F)<<6 | uint16(b[i+1]&0x3F)
			units = append(units, r)
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := uint16(c&0x0F)<<12 | uint16(b[i+1]&0x3F)<<6 | uint16(b[i+2]&0x3F)
			units = append(units, r)
			i += 3
		case c&0xF8 == 0xF0 && i+3 < len(b):
			cp := uint32(c&0x07)<<18 | uint32(b[i+1]&0x3F)<<12 | uint32(b[i+2]&0x3F)<<6 | uint32(b[i+3]&0x3F)
			cp -= 0x10000
			units = append(units, uint16(0xD800+(cp>>10)), uint16(0xDC00+(cp&0x3FF)))
			i += 4
		default:
			units = append(units, uint16(c))
			i++
		}
	}

	return units
}
