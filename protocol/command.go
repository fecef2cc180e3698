package protocol

import (
	"strconv"
	"strings"
)

// IDLength is the number of characters in a device id.
const IDLength = 2

// Command is one element of a command list.
type Command struct {
	ID    string
	Value float64

	// Malformed is set when the payload was present but not a number. The
	// value is then 0.
	Malformed bool
	Raw       string
}

// ParseCommands splits a depacketized payload into commands. Elements are
// separated by commas and empty elements are skipped. Each element is a
// two-character id, an optional colon and an optional number; a missing
// number means 0. A bad number also yields 0, with Malformed set, and never
// drops the rest of the list.
func ParseCommands(payload string) []Command {
	var cmds []Command
	for _, elem := range strings.Split(payload, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		cmds = append(cmds, parseCommand(elem))
	}
	return cmds
}

func parseCommand(elem string) Command {
	if len(elem) < IDLength {
		return Command{ID: elem, Malformed: true, Raw: elem}
	}
	c := Command{ID: elem[:IDLength], Raw: elem}

	data := strings.TrimPrefix(elem[IDLength:], ":")
	data = strings.TrimSpace(data)
	if data == "" {
		return c
	}
	v, err := strconv.ParseFloat(data, 64)
	if err != nil {
		c.Malformed = true
		return c
	}
	c.Value = v
	return c
}

// Format renders a command the way ParseCommands reads it.
func (c Command) Format() string {
	return c.ID + ":" + strconv.FormatFloat(c.Value, 'f', -1, 64)
}
