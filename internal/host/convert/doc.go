// Package convert implements the UTF-16-code-unit boundary ECMAScript
// observes externally (String.prototype.length, charAt, charCodeAt) over
// strings that internal/heap stores as UTF-8 (§9's "the core accepts
// WTF-8 internally but TC39 mandates UTF-16 indices externally").
//
// Rather than hand-roll a surrogate-pair scanner, the UTF-8→UTF-16
// transcoding goes through golang.org/x/text/encoding/unicode, the same
// codec family the retrieval pack's joshuapare-hivekit and
// simon-lentz-yammm both depend on for text-encoding boundaries.
package convert
