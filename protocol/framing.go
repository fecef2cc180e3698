// Package protocol implements the control program wire format: framed text
// packets carrying comma-separated device commands, and text or binary
// response payloads.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingStart  = errors.New("packet missing start marker")
	ErrMissingEnd    = errors.New("packet missing end marker")
	ErrForbiddenChar = errors.New("payload contains a reserved character")
)

// Framing holds the packet start and end markers.
type Framing struct {
	Start byte
	End   byte
}

// DefaultFraming wraps packets in square brackets.
var DefaultFraming = Framing{Start: '[', End: ']'}

// Packetize wraps payload in the markers. Payloads containing either marker
// or a newline are refused and must not be sent.
func (f Framing) Packetize(payload string) (string, error) {
	if i := strings.IndexAny(payload, string([]byte{f.Start, f.End, '\n'})); i >= 0 {
		return "", fmt.Errorf("%w: %q at offset %d", ErrForbiddenChar, payload[i], i)
	}
	var b strings.Builder
	b.Grow(len(payload) + 2)
	b.WriteByte(f.Start)
	b.WriteString(payload)
	b.WriteByte(f.End)
	return b.String(), nil
}

// Depacketize strips the outer markers from raw, ignoring surrounding
// whitespace. Back-to-back packets joined as "][" become one comma-separated
// payload.
func (f Framing) Depacketize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) == 0 || s[0] != f.Start {
		return "", ErrMissingStart
	}
	if len(s) < 2 || s[len(s)-1] != f.End {
		return "", ErrMissingEnd
	}
	inner := s[1 : len(s)-1]
	return strings.ReplaceAll(inner, string([]byte{f.End, f.Start}), ","), nil
}
