package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// PK identifies the status a series belongs to. On the wire it is a bare JSON
// primitive, either a number or a string.
type PK struct {
	value string
}

// StringPK builds a PK from its string form.
func StringPK(s string) PK {
	return PK{value: s}
}

// IntPK builds a PK from an integer primary key.
func IntPK(n int64) PK {
	return PK{value: strconv.FormatInt(n, 10)}
}

// String returns the form used to address the status's placeholder element.
// Numbers render without a trailing ".0" so 7 and 7.0 address the same element.
func (p PK) String() string {
	return p.value
}

// IsZero reports whether the PK was never set.
func (p PK) IsZero() bool {
	return p.value == ""
}

// UnmarshalJSON accepts a JSON number, string, boolean or null.
func (p *PK) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty status pk")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid status pk %s: %w", data, err)
		}
		p.value = s
		return nil
	case '{', '[':
		return fmt.Errorf("status pk must be a primitive, got %s", data)
	case 't', 'f', 'n':
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid status pk %s: %w", data, err)
		}
		p.value = string(data)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid status pk %s: %w", data, err)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("invalid status pk %s: %w", data, err)
	}
	p.value = formatNumber(f)
	return nil
}

// MarshalJSON writes canonical integer keys as numbers and everything else,
// including "007" and "+7", as strings.
func (p PK) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(p.value, 10, 64); err == nil && strconv.FormatInt(n, 10) == p.value {
		return []byte(p.value), nil
	}
	return json.Marshal(p.value)
}

// UnmarshalYAML lets fixtures write pk as either 7 or "7".
func (p *PK) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: status pk must be a scalar", node.Line)
	}
	s := node.Value
	if tag := node.ShortTag(); tag == "!!int" || tag == "!!float" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid status pk %q: %w", node.Line, s, err)
		}
		p.value = formatNumber(f)
		return nil
	}
	p.value = s
	return nil
}

// formatNumber renders f the way the browser stringifies numbers for ids;
// negative zero becomes "0".
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
