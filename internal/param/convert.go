package param

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(string); ok {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	}
	return false, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	}
	return "", false
}

func toURL(v any) (string, bool) {
	switch u := v.(type) {
	case *url.URL:
		if u == nil {
			return "", false
		}
		return u.String(), true
	case string:
		if _, err := url.Parse(u); err != nil {
			return "", false
		}
		return u, true
	}
	return "", false
}

// toNumber converts v to canonical decimal text. Integer kinds are formatted
// exactly; floats use the shortest representation that round-trips.
func toNumber(v any) (json.Number, bool) {
	switch n := v.(type) {
	case int:
		return formatInt(int64(n)), true
	case int8:
		return formatInt(int64(n)), true
	case int16:
		return formatInt(int64(n)), true
	case int32:
		return formatInt(int64(n)), true
	case int64:
		return formatInt(n), true
	case uint:
		return formatUint(uint64(n)), true
	case uint8:
		return formatUint(uint64(n)), true
	case uint16:
		return formatUint(uint64(n)), true
	case uint32:
		return formatUint(uint64(n)), true
	case uint64:
		return formatUint(n), true
	case float32:
		return formatFloat(float64(n), 32)
	case float64:
		return formatFloat(n, 64)
	case json.Number:
		return parseNumber(n.String())
	case string:
		return parseNumber(strings.TrimSpace(n))
	}
	return "", false
}

// parseNumber accepts integers of any int64 or uint64 magnitude without
// going through float64.
func parseNumber(s string) (json.Number, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return formatInt(i), true
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return formatUint(u), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	return formatFloat(f, 64)
}

func formatInt(i int64) json.Number { return json.Number(strconv.FormatInt(i, 10)) }

func formatUint(u uint64) json.Number { return json.Number(strconv.FormatUint(u, 10)) }

func formatFloat(f float64, bitSize int) (json.Number, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, bitSize)), true
}

// toItems flattens a sequence value into its elements.
func toItems(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if !isSequence(v) {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
