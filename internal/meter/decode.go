package meter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned when metering data cannot be read as an ordered
// list of numbers.
var ErrMalformed = errors.New("metering data not formatted correctly")

// keys under which recordings store their metering array
var meteringKeys = []string{"metering", "metering_data", "meteringArray", "samples"}

// Decode reads a buffer from YAML or JSON. Accepted shapes:
//
//	[-56.1, -45.7, ...]
//	metering: [-56.1, -45.7, ...]
//	{"metering_data": "[-56.1, -45.7, ...]"}
//
// The last form is how recordings keep the array as text.
func Decode(r io.Reader) (Buffer, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	return decodeNode(doc.Content[0], 0)
}

// DecodeString is Decode over an in-memory string.
func DecodeString(s string) (Buffer, error) {
	return Decode(strings.NewReader(s))
}

func decodeNode(n *yaml.Node, depth int) (Buffer, error) {
	if depth > 2 {
		return nil, fmt.Errorf("%w: metering array nested too deeply", ErrMalformed)
	}

	switch n.Kind {
	case yaml.AliasNode:
		return decodeNode(n.Alias, depth)

	case yaml.SequenceNode:
		var out []float64
		if err := n.Decode(&out); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, n.Line, err)
		}
		if out == nil {
			out = []float64{}
		}
		return Buffer(out), nil

	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			for _, key := range meteringKeys {
				if n.Content[i].Value == key {
					return decodeNode(n.Content[i+1], depth+1)
				}
			}
		}
		return nil, fmt.Errorf("%w: no %s key", ErrMalformed, strings.Join(meteringKeys, "/"))

	case yaml.ScalarNode:
		s := strings.TrimSpace(n.Value)
		if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("%w: expected a bracketed list, got %q", ErrMalformed, truncate(s, 32))
		}
		var inner yaml.Node
		if err := yaml.Unmarshal([]byte(s), &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if len(inner.Content) == 0 || inner.Content[0].Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: expected a list", ErrMalformed)
		}
		return decodeNode(inner.Content[0], depth+1)
	}

	return nil, fmt.Errorf("%w: unexpected yaml node kind %d", ErrMalformed, n.Kind)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
