package utils

import (
	"fmt"
	"reflect"
)

// ColumnList returns the list of "db" tag values of T's fields, optionally
// prefixed. Used by dbmodels to keep SELECT column lists in sync with the
// scanned struct.
func ColumnList[T any](prefixes ...string) []string {
	var value T
	t := reflect.TypeOf(value)
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("ColumnList: %T is not a struct", value))
	}

	var prefix string
	for _, p := range prefixes {
		prefix += p + "."
	}

	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("db")
		if !ok || tag == "-" {
			continue
		}
		columns = append(columns, prefix+tag)
	}
	return columns
}
