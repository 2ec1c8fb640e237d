package filter

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("filter: malformed expression")

// wire is the JSON form of every expression kind.
type wire struct {
	Op     string            `json:"op"`
	Column string            `json:"column,omitempty"`
	Value  any               `json:"value,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`
}

func (c Compare) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op     string `json:"op"`
		Column string `json:"column"`
		Value  any    `json:"value"`
	}{"eq", c.Column, c.Value})
}

func (a And) MarshalJSON() ([]byte, error) { return marshalPair("and", a.Left, a.Right) }
func (o Or) MarshalJSON() ([]byte, error)  { return marshalPair("or", o.Left, o.Right) }

func marshalPair(op string, l, r Expr) ([]byte, error) {
	return json.Marshal(struct {
		Op   string `json:"op"`
		Args []Expr `json:"args"`
	}{op, []Expr{l, r}})
}

// Encode returns the persisted form of e. A nil expression encodes to nil.
func Encode(e Expr) ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

// Decode parses the output of Encode. Empty input decodes to nil.
// Numbers decode as float64.
func Decode(data []byte) (Expr, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch w.Op {
	case "eq":
		if w.Column == "" {
			return nil, fmt.Errorf("%w: comparison without column", ErrMalformed)
		}
		return Compare{Column: w.Column, Value: w.Value}, nil
	case "and", "or":
		if len(w.Args) != 2 {
			return nil, fmt.Errorf("%w: %s needs 2 arguments, got %d", ErrMalformed, w.Op, len(w.Args))
		}
		l, err := Decode(w.Args[0])
		if err != nil {
			return nil, err
		}
		r, err := Decode(w.Args[1])
		if err != nil {
			return nil, err
		}
		if l == nil || r == nil {
			return nil, fmt.Errorf("%w: null argument to %s", ErrMalformed, w.Op)
		}
		if w.Op == "and" {
			return And{Left: l, Right: r}, nil
		}
		return Or{Left: l, Right: r}, nil
	}
	return nil, fmt.Errorf("%w: unknown operator %q", ErrMalformed, w.Op)
}
