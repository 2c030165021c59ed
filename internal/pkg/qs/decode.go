package qs

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Decode parses a bracket-notation query string back into a tree of
// map[string]any. Objects whose keys are exactly 0..n-1 become []any.
// Leaf values are always strings.
func Decode(raw string) (map[string]any, error) {
	root := map[string]any{}
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return root, nil
	}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		val, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("decode value of %q: %w", key, err)
		}
		path, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		if err := assign(root, path, val); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
	}
	out, _ := collapse(root).(map[string]any)
	return out, nil
}

func splitKey(key string) ([]string, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return []string{key}, nil
	}
	path := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("malformed key %q", key)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated bracket in %q", key)
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path, nil
}

func assign(node map[string]any, path []string, value string) error {
	for i, seg := range path {
		if i == len(path)-1 {
			if _, exists := node[seg]; exists {
				return fmt.Errorf("duplicate key segment %q", seg)
			}
			node[seg] = value
			return nil
		}
		next, ok := node[seg]
		if !ok {
			child := map[string]any{}
			node[seg] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("segment %q is both a value and an object", seg)
		}
		node = child
	}
	return nil
}

func collapse(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = collapse(child)
	}
	if list, ok := asList(m); ok {
		return list
	}
	return m
}

func asList(m map[string]any) ([]any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	idx := make([]int, 0, len(m))
	for k := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 || strconv.Itoa(n) != k {
			return nil, false
		}
		idx = append(idx, n)
	}
	sort.Ints(idx)
	for i, n := range idx {
		if i != n {
			return nil, false
		}
	}
	out := make([]any, len(idx))
	for _, n := range idx {
		out[n] = m[strconv.Itoa(n)]
	}
	return out, true
}
