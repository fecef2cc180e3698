package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBinaryLength is returned for binary payloads that are not a whole number
// of float64 values.
var ErrBinaryLength = errors.New("binary payload length is not a multiple of 8")

// Reply is one response entry.
type Reply struct {
	ID    string
	Value float64
}

// EncodeText renders replies as "id:value" entries joined by commas, with
// values rounded to digits decimal places. Infinities and NaN are written as
// inf, -inf and nan.
func EncodeText(replies []Reply, digits int) string {
	var b strings.Builder
	for i, r := range replies {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(r.ID)
		b.WriteByte(':')
		b.WriteString(FormatValue(r.Value, digits))
	}
	return b.String()
}

// FormatValue renders one value for the text format.
func FormatValue(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	scale := math.Pow(10, float64(digits))
	rounded := math.Round(v*scale) / scale
	if math.IsInf(rounded, 0) || math.IsNaN(rounded) {
		rounded = v
	}
	if rounded == 0 {
		rounded = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// DecodeText parses a text response payload.
func DecodeText(payload string) []Reply {
	cmds := ParseCommands(payload)
	out := make([]Reply, len(cmds))
	for i, c := range cmds {
		out[i] = Reply{ID: c.ID, Value: c.Value}
	}
	return out
}

// EncodeBinary packs the reply values as little-endian IEEE-754 doubles with
// no delimiter. Ids are not sent; order follows the command list.
func EncodeBinary(replies []Reply) []byte {
	buf := make([]byte, 0, 8*len(replies))
	for _, r := range replies {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Value))
	}
	return buf
}

// DecodeBinary unpacks a binary response payload.
func DecodeBinary(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrBinaryLength, len(b))
	}
	out := make([]float64, len(b)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return out, nil
}
