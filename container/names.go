package container

import (
	"reflect"
	"unicode"
	"unicode/utf8"
)

// DefaultName derives the managed-instance name for v from its concrete
// type name: pointer indirection stripped, first letter lower-cased unless
// the first two letters are both upper-case, so initialisms keep their
// casing (*UserService becomes "userService", *URLResolver stays
// "URLResolver"). Returns "" for values without a named type.
func DefaultName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return decapitalize(t.Name())
}

func decapitalize(name string) string {
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return name
	}
	if second, _ := utf8.DecodeRuneInString(name[size:]); unicode.IsUpper(second) {
		return name
	}
	return string(unicode.ToLower(first)) + name[size:]
}
