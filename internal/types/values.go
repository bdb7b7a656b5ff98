package types

import (
	"maps"
	"slices"

	"github.com/sipio/sipproxy/internal/util"
)

// Values maps a string key to a list of string values.
// The keys in the map are case-insensitive.
// It is typically used to store URI's or header's parameters.
// A key with an empty value renders as a flag parameter (e.g. ";lr", ";rport").
type Values map[string][]string

// Get returns values associated with the given key.
func (vals Values) Get(key string) []string { return vals[util.LCase(key)] }

// Last returns the last value associated with the key.
func (vals Values) Last(key string) (string, bool) {
	v := vals[util.LCase(key)]
	if len(v) == 0 {
		return "", false
	}
	return v[len(v)-1], true
}

// Set sets the key to value. It replaces any existing values.
func (vals Values) Set(key, value string) Values {
	vals[util.LCase(key)] = []string{value}
	return vals
}

// Del deletes the values associated with the key.
func (vals Values) Del(key string) Values {
	delete(vals, util.LCase(key))
	return vals
}

// Has checks whether a given key is in the list.
func (vals Values) Has(key string) bool {
	_, ok := vals[util.LCase(key)]
	return ok
}

// Clone returns a copy of the map.
func (vals Values) Clone() Values {
	if vals == nil {
		return nil
	}
	vals2 := make(Values, len(vals))
	for k, vs := range vals {
		vals2[k] = slices.Clone(vs)
	}
	return vals2
}

// Equal compares two parameter sets ignoring key order.
func (vals Values) Equal(val any) bool {
	var other Values
	switch v := val.(type) {
	case Values:
		other = v
	case *Values:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return maps.EqualFunc(vals, other, slices.Equal[[]string])
}

// SortedKeys returns the keys in alphabetical order.
func (vals Values) SortedKeys() []string {
	return slices.Sorted(maps.Keys(vals))
}
