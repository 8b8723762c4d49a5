package distribution

import (
	"fmt"
	"strconv"
	"strings"
)

// The map-valued configuration fields share one textual encoding: a
// bracketed list of whitespace-separated key:value pairs, e.g.
// "[0:941 1:364]" or "[PRODUCTION_ENV:0.62 STAGING_ENV:0.38]". The parsers
// below decode that encoding into the typed maps the table constructors
// take. Duplicate keys are rejected rather than last-one-wins: a duplicate
// always means a hand-edited config went wrong.

func splitPairs(encoded string) ([][2]string, error) {
	s := strings.TrimSpace(encoded)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("map %q is not bracketed", encoded)
	}
	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" {
		return nil, fmt.Errorf("map %q has no entries", encoded)
	}

	fields := strings.Fields(s)
	pairs := make([][2]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		key, value, ok := strings.Cut(field, ":")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("map entry %q is not key:value", field)
		}
		if seen[key] {
			return nil, fmt.Errorf("map %q repeats key %q", encoded, key)
		}
		seen[key] = true
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs, nil
}

// ParseCountMap decodes an int:int histogram, e.g. "[0:941 1:364 2:89]".
func ParseCountMap(encoded string) (map[int]int, error) {
	pairs, err := splitPairs(encoded)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int, len(pairs))
	for _, p := range pairs {
		key, err := strconv.Atoi(p[0])
		if err != nil {
			return nil, fmt.Errorf("map key %q is not an integer", p[0])
		}
		count, err := strconv.Atoi(p[1])
		if err != nil {
			return nil, fmt.Errorf("map value %q for key %d is not an integer", p[1], key)
		}
		counts[key] = count
	}
	return counts, nil
}

// ParseProbaMap decodes a label:probability map, e.g.
// "[DOWN:0.1 DEGRADED:0.4 NONE:0.5]".
func ParseProbaMap(encoded string) (map[string]float64, error) {
	pairs, err := splitPairs(encoded)
	if err != nil {
		return nil, err
	}
	probs := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		prob, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			return nil, fmt.Errorf("map value %q for key %q is not a number", p[1], p[0])
		}
		probs[p[0]] = prob
	}
	return probs, nil
}

// ParseEnumCountMap decodes a label:count map, e.g.
// "[PRODUCTION_ENV:812 STAGING_ENV:75]".
func ParseEnumCountMap(encoded string) (map[string]int, error) {
	pairs, err := splitPairs(encoded)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(pairs))
	for _, p := range pairs {
		count, err := strconv.Atoi(p[1])
		if err != nil {
			return nil, fmt.Errorf("map value %q for key %q is not an integer", p[1], p[0])
		}
		counts[p[0]] = count
	}
	return counts, nil
}

// ParseBinaryMap decodes an int-keyed probability map restricted to 0/1,
// e.g. "[0:0.57 1:0.43]".
func ParseBinaryMap(encoded string) (map[int]float64, error) {
	pairs, err := splitPairs(encoded)
	if err != nil {
		return nil, err
	}
	probs := make(map[int]float64, len(pairs))
	for _, p := range pairs {
		key, err := strconv.Atoi(p[0])
		if err != nil {
			return nil, fmt.Errorf("map key %q is not an integer", p[0])
		}
		prob, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			return nil, fmt.Errorf("map value %q for key %d is not a number", p[1], key)
		}
		probs[key] = prob
	}
	return probs, nil
}
