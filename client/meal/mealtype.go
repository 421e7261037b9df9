package meal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is one of the three meals served per day.
type Type int

const (
	Breakfast Type = iota + 1
	Lunch
	Dinner
)

// Types lists every meal type in serving order.
var Types = []Type{Breakfast, Lunch, Dinner}

// String returns the lower-case name used as the cancelled-set key.
func (t Type) String() string {
	switch t {
	case Breakfast:
		return "breakfast"
	case Lunch:
		return "lunch"
	case Dinner:
		return "dinner"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Title returns the capitalized name the cancel endpoint expects ("Lunch").
func (t Type) Title() string {
	s := t.String()
	if !t.Valid() {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether t is one of Breakfast, Lunch or Dinner.
func (t Type) Valid() bool { return t >= Breakfast && t <= Dinner }

// ParseType maps a backend type string to a Type, ignoring case and
// surrounding whitespace.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return Breakfast, nil
	case "lunch":
		return Lunch, nil
	case "dinner":
		return Dinner, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return json.Marshal(t.String())
}

func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
