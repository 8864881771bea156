package netplay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// DefaultAddr is the relay's listen address when none is configured.
const DefaultAddr = ":5000"

// maxLine caps a single NDJSON message.
const maxLine = 1 << 20

// Message is one decoded JSON object from the wire.
type Message map[string]any

// ToMessage converts any JSON-encodable value (a snapshot, usually) into a
// Message.
func ToMessage(v any) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("netplay: encode: %w", err)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("netplay: %T is not a JSON object: %w", v, err)
	}
	return m, nil
}

// encodeLine returns msg as a single newline-terminated line.
func encodeLine(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("netplay: encode: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeLine(line []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(line, &m); err != nil {
		return nil, fmt.Errorf("netplay: decode: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("netplay: decode: not an object")
	}
	return m, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 4096), maxLine)
	return s
}
