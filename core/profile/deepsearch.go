package profile

import (
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
)

var (
	classKeyRegex = regexp.MustCompile(`(?i)class|std`)
	digitsRegex   = regexp.MustCompile(`^\d+$`)
)

// maxSearchDepth bounds the recursive descent; profile payloads are shallow,
// anything deeper is noise.
const maxSearchDepth = 16

// ExtractClassStd deep-searches a decoded JSON value for a grade-level field
// within [min, max]. Search order at each object: the known key spellings,
// then any key matching class|std, then descent into nested values. A visited
// set keyed by container identity guards against reference cycles.
func ExtractClassStd(v interface{}, min, max int) (int, bool) {
	return classSearch(v, min, max, make(map[uintptr]bool), 0)
}

func classSearch(v interface{}, min, max int, seen map[uintptr]bool, depth int) (int, bool) {
	if v == nil || depth > maxSearchDepth {
		return 0, false
	}
	switch val := v.(type) {
	case map[string]interface{}:
		if !mark(seen, val) {
			return 0, false
		}

		for _, key := range []string{"class_std", "classStd", "class"} {
			if n, ok := toNum(val[key]); ok && n >= min && n <= max {
				return n, true
			}
		}

		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys) // deterministic scan order

		for _, k := range keys {
			if classKeyRegex.MatchString(k) {
				if n, ok := toNum(val[k]); ok && n >= min && n <= max {
					return n, true
				}
			}
		}
		for _, k := range keys {
			if n, ok := classSearch(val[k], min, max, seen, depth+1); ok {
				return n, true
			}
		}
	case []interface{}:
		if !mark(seen, val) {
			return 0, false
		}
		for _, item := range val {
			if n, ok := classSearch(item, min, max, seen, depth+1); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// mark records the container's identity; false means it was already visited.
func mark(seen map[uintptr]bool, container interface{}) bool {
	ptr := reflect.ValueOf(container).Pointer()
	if seen[ptr] {
		return false
	}
	seen[ptr] = true
	return true
}

// toNum accepts finite whole numbers and all-digit strings.
func toNum(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		if !digitsRegex.MatchString(n) {
			return 0, false
		}
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
