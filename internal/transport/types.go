package transport

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FeatureList accepts a JSON array, a JSON string or form values. Strings are
// split on commas; entries are trimmed and blanks dropped.
type FeatureList []string

func (f *FeatureList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = splitFeatures([]string{s})
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*f = splitFeatures(list)
	return nil
}

func (f *FeatureList) UnmarshalParam(param string) error {
	*f = splitFeatures([]string{param})
	return nil
}

func (f *FeatureList) UnmarshalParams(params []string) error {
	*f = splitFeatures(params)
	return nil
}

func splitFeatures(values []string) FeatureList {
	out := FeatureList{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Flag is a checkbox-style boolean: true, "true", "on", "1", "yes" and 1 are
// true, anything else (including absence) is false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case string:
		*f = Flag(truthy(t))
	case float64:
		*f = Flag(t == 1)
	default:
		*f = false
	}
	return nil
}

func (f *Flag) UnmarshalParam(param string) error {
	*f = Flag(truthy(param))
	return nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// Numeric keeps the raw text of a number sent either as a JSON number or as
// a string, so that parsing errors can be reported per field.
type Numeric struct {
	Raw string
	Set bool
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Numeric{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric{Raw: strings.TrimSpace(s), Set: true}
		return nil
	}
	*n = Numeric{Raw: string(b), Set: true}
	return nil
}

func (n *Numeric) UnmarshalParam(param string) error {
	*n = Numeric{Raw: strings.TrimSpace(param), Set: true}
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// Int parses the value; ok is false when it was absent or blank.
func (n Numeric) Int() (v int, ok bool, err error) {
	if !n.Set || n.Raw == "" {
		return 0, false, nil
	}
	v, err = strconv.Atoi(n.Raw)
	return v, true, err
}
