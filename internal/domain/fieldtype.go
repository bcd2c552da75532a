package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType is the type tag of an observation column.
type FieldType string

const (
	FieldTypeInteger   FieldType = "Integer"
	FieldTypeFloat     FieldType = "Float"
	FieldTypeBoolean   FieldType = "Boolean"
	FieldTypeTimestamp FieldType = "Timestamp"

	// FieldTypeOpaque marks an introspected column whose declared storage
	// type has no FieldType counterpart. It never appears in the menu.
	FieldTypeOpaque FieldType = "Opaque"
)

// FieldTypeMenu is the selector order shown to the user. Selector n maps to
// FieldTypeMenu[n-1] for the whole run.
var FieldTypeMenu = []FieldType{
	FieldTypeInteger,
	FieldTypeFloat,
	FieldTypeBoolean,
	FieldTypeTimestamp,
}

var storageNames = map[FieldType]string{
	FieldTypeInteger:   "INTEGER",
	FieldTypeFloat:     "FLOAT",
	FieldTypeBoolean:   "BOOLEAN",
	FieldTypeTimestamp: "TIMESTAMP",
}

// IsValid reports whether t is one of the catalog types.
func (t FieldType) IsValid() bool {
	_, ok := storageNames[t]
	return ok
}

// StorageName returns the column type used in CREATE TABLE statements.
// Opaque and unknown types have no storage name.
func (t FieldType) StorageName() string {
	return storageNames[t]
}

// TypeForSelector resolves a 1-based menu selector.
func TypeForSelector(selector int) (FieldType, error) {
	if selector < 1 || selector > len(FieldTypeMenu) {
		return "", fmt.Errorf("%w: selector %d", ErrUnknownType, selector)
	}
	return FieldTypeMenu[selector-1], nil
}

// ParseFieldType accepts a catalog type name ("float", "Timestamp") or a
// menu selector ("2").
func ParseFieldType(text string) (FieldType, error) {
	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil {
		return TypeForSelector(n)
	}
	for _, t := range FieldTypeMenu {
		if strings.EqualFold(string(t), text) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, text)
}

// MenuText renders the selector menu, e.g. "1 Integer  2 Float  ...".
func MenuText() string {
	parts := make([]string, len(FieldTypeMenu))
	for i, t := range FieldTypeMenu {
		parts[i] = fmt.Sprintf("%d %s", i+1, t)
	}
	return strings.Join(parts, "  ")
}

// FromStorageName maps a declared column type back to a FieldType.
// Storage engines normalise type names differently, so this is best-effort:
// unrecognised names come back as FieldTypeOpaque with ok=false.
func FromStorageName(declared string) (FieldType, bool) {
	upper := strings.ToUpper(strings.TrimSpace(declared))

	// MySQL reports BOOLEAN columns as tinyint(1).
	if upper == "TINYINT(1)" {
		return FieldTypeBoolean, true
	}

	base := upper
	if idx := strings.Index(upper, "("); idx > 0 {
		base = strings.TrimSpace(upper[:idx])
	}

	switch base {
	case "INTEGER", "INT", "BIGINT", "SMALLINT", "MEDIUMINT", "INT4", "INT8":
		return FieldTypeInteger, true
	case "FLOAT", "REAL", "DOUBLE", "DOUBLE PRECISION", "FLOAT4", "FLOAT8":
		return FieldTypeFloat, true
	case "BOOLEAN", "BOOL":
		return FieldTypeBoolean, true
	case "TIMESTAMP", "TIMESTAMP WITHOUT TIME ZONE", "TIMESTAMP WITH TIME ZONE", "TIMESTAMPTZ", "DATETIME":
		return FieldTypeTimestamp, true
	default:
		return FieldTypeOpaque, false
	}
}

// timestampLayouts are tried in order when parsing user-entered timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseValue converts user text into a value suitable for binding to a
// column of type t.
func ParseValue(t FieldType, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch t {
	case FieldTypeInteger:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, text)
		}
		return v, nil
	case FieldTypeFloat:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, text)
		}
		return v, nil
	case FieldTypeBoolean:
		if v, ok := ParseYesNo(text); ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %q is not yes/no", ErrInvalidValue, text)
	case FieldTypeTimestamp:
		for _, layout := range timestampLayouts {
			if v, err := time.ParseInLocation(layout, text, time.Local); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a timestamp (use YYYY-MM-DD HH:MM)", ErrInvalidValue, text)
	case FieldTypeOpaque:
		return text, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}

// ParseYesNo accepts y/yes/true/1 and n/no/false/0, case-insensitively.
func ParseYesNo(text string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes", "true", "1":
		return true, true
	case "n", "no", "false", "0":
		return false, true
	}
	return false, false
}
