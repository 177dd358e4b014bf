package util

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Upper-case, trim and de-duplicate a list of codes. Order of first appearance is kept.
func format(codes []string) []string {
	var unique []string
	seen := map[string]bool{}
	for _, v := range codes {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}
	return unique
}

// Filter keeps the selected codes that appear in known, in the order they were selected.
// Unknown codes are reported in the error.
func Filter(selected, known []string) ([]string, error) {
	selected = format(selected)
	idx := map[string]bool{}
	for _, v := range known {
		idx[v] = true
	}
	var out, unknown []string
	for _, v := range selected {
		if idx[v] {
			out = append(out, v)
		} else {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown codes: %s", strings.Join(unknown, ","))
	}
	if len(out) == 0 {
		return nil, errors.New("there are no available codes")
	}
	return out, nil
}

// SplitList splits a comma separated flag value.
func SplitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseInts parses a comma separated list of positive integers, e.g. "100,1000,10000".
func ParseInts(s string) ([]int, error) {
	var out []int
	for _, v := range SplitList(s) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", v, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("parse %q: must be positive", v)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("empty list")
	}
	return out, nil
}
