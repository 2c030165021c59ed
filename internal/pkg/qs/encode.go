package qs

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Encode serialises p. Top-level keys keep a fixed order (filters, sort,
// pagination, populate, fields); nested keys are sorted so the output is
// stable. Nil values and empty containers produce no key at all.
// Keys are written as-is, values are percent-encoded.
func Encode(p Params) string {
	var e encoder
	e.value("filters", map[string]any(p.Filters))
	e.value("sort", p.Sort)
	e.value("pagination", p.Pagination.tree())
	e.value("populate", p.Populate.tree())
	e.value("fields", p.Fields)
	return strings.Join(e.pairs, "&")
}

type encoder struct {
	pairs []string
}

func (e *encoder) emit(key, value string) {
	e.pairs = append(e.pairs, key+"="+escapeValue(value))
}

func (e *encoder) value(key string, v any) {
	switch x := v.(type) {
	case nil:
		return
	case Filter:
		e.object(key, x)
	case map[string]any:
		e.object(key, x)
	case []Filter:
		for i, f := range x {
			e.value(indexKey(key, i), f)
		}
	case []any:
		for i, item := range x {
			e.value(indexKey(key, i), item)
		}
	case []string:
		for i, item := range x {
			e.emit(indexKey(key, i), item)
		}
	case string:
		e.emit(key, x)
	case bool:
		e.emit(key, strconv.FormatBool(x))
	case int:
		e.emit(key, strconv.Itoa(x))
	case int64:
		e.emit(key, strconv.FormatInt(x, 10))
	case float64:
		e.emit(key, strconv.FormatFloat(x, 'f', -1, 64))
	case time.Time:
		e.emit(key, x.UTC().Format(time.RFC3339))
	case fmt.Stringer:
		e.emit(key, x.String())
	default:
		e.reflected(key, reflect.ValueOf(v))
	}
}

func (e *encoder) object(key string, m map[string]any) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.value(key+"["+k+"]", m[k])
	}
}

func (e *encoder) reflected(key string, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}
		e.value(key, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return
		}
		for i := 0; i < rv.Len(); i++ {
			e.value(indexKey(key, i), rv.Index(i).Interface())
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		e.object(key, m)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.emit(key, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.emit(key, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		e.emit(key, strconv.FormatFloat(rv.Float(), 'f', -1, 32))
	case reflect.String:
		e.emit(key, rv.String())
	case reflect.Bool:
		e.emit(key, strconv.FormatBool(rv.Bool()))
	}
}

func indexKey(key string, i int) string {
	return key + "[" + strconv.Itoa(i) + "]"
}

// escapeValue percent-encodes per RFC 3986 (space is %20, not +).
func escapeValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
