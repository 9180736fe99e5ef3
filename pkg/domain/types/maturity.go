package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// MaturityLevel is the 0-5 implementation strength of a control.
// It is string-encoded on the wire ("0".."5") but numeric numbers are accepted too.
type MaturityLevel int

const (
	MinMaturityLevel MaturityLevel = 0
	MaxMaturityLevel MaturityLevel = 5
)

// IsValid reports whether the level is within [0,5]
func (m MaturityLevel) IsValid() bool {
	return m >= MinMaturityLevel && m <= MaxMaturityLevel
}

// Clamp returns the level bounded to [0,5]
func (m MaturityLevel) Clamp() MaturityLevel {
	switch {
	case m < MinMaturityLevel:
		return MinMaturityLevel
	case m > MaxMaturityLevel:
		return MaxMaturityLevel
	default:
		return m
	}
}

func (m MaturityLevel) String() string {
	return strconv.Itoa(int(m))
}

// ParseMaturityLevel parses a string-encoded maturity level. Empty string is level 0.
func ParseMaturityLevel(s string) (MaturityLevel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MinMaturityLevel, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerr.Wrap(err, "maturity level must be an integer", goerr.V("value", s))
	}

	level := MaturityLevel(v)
	if !level.IsValid() {
		return 0, goerr.New("maturity level must be between 0 and 5", goerr.V("value", v))
	}
	return level, nil
}

func (m MaturityLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *MaturityLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return goerr.Wrap(err, "maturity level must be a string or an integer", goerr.V("value", string(data)))
		}
		s = strconv.Itoa(n)
	}

	level, err := ParseMaturityLevel(s)
	if err != nil {
		return err
	}
	*m = level
	return nil
}
