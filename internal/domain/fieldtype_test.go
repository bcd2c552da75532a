package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obst/internal/domain"
)

func TestTypeForSelector(t *testing.T) {
	for i, want := range domain.FieldTypeMenu {
		got, err := domain.TypeForSelector(i + 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.StorageName())
	}

	for _, sel := range []int{0, -1, len(domain.FieldTypeMenu) + 1} {
		_, err := domain.TypeForSelector(sel)
		assert.ErrorIs(t, err, domain.ErrUnknownType, "selector %d", sel)
	}
}

func TestMenuText(t *testing.T) {
	assert.Equal(t, "1 Integer  2 Float  3 Boolean  4 Timestamp", domain.MenuText())
}

func TestParseFieldType(t *testing.T) {
	for _, in := range []string{"float", "Float", " FLOAT ", "2"} {
		ft, err := domain.ParseFieldType(in)
		require.NoError(t, err, in)
		assert.Equal(t, domain.FieldTypeFloat, ft)
	}
	_, err := domain.ParseFieldType("text")
	assert.ErrorIs(t, err, domain.ErrUnknownType)
	_, err = domain.ParseFieldType("9")
	assert.ErrorIs(t, err, domain.ErrUnknownType)
}

func TestFromStorageName(t *testing.T) {
	tests := []struct {
		declared string
		want     domain.FieldType
		ok       bool
	}{
		{"INTEGER", domain.FieldTypeInteger, true},
		{"bigint", domain.FieldTypeInteger, true},
		{"int(11)", domain.FieldTypeInteger, true},
		{"FLOAT", domain.FieldTypeFloat, true},
		{"double precision", domain.FieldTypeFloat, true},
		{"BOOLEAN", domain.FieldTypeBoolean, true},
		{"tinyint(1)", domain.FieldTypeBoolean, true},
		{"TIMESTAMP", domain.FieldTypeTimestamp, true},
		{"timestamp without time zone", domain.FieldTypeTimestamp, true},
		{"datetime", domain.FieldTypeTimestamp, true},
		{"TEXT", domain.FieldTypeOpaque, false},
		{"varchar(255)", domain.FieldTypeOpaque, false},
		{"", domain.FieldTypeOpaque, false},
	}
	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			got, ok := domain.FromStorageName(tt.declared)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestStorageNameRoundTrip(t *testing.T) {
	for _, ft := range domain.FieldTypeMenu {
		got, ok := domain.FromStorageName(ft.StorageName())
		assert.True(t, ok)
		assert.Equal(t, ft, got)
	}
}

func TestParseValue(t *testing.T) {
	v, err := domain.ParseValue(domain.FieldTypeInteger, " 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = domain.ParseValue(domain.FieldTypeFloat, "21.5")
	require.NoError(t, err)
	assert.Equal(t, 21.5, v)

	v, err = domain.ParseValue(domain.FieldTypeBoolean, "Yes")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = domain.ParseValue(domain.FieldTypeTimestamp, "2026-03-01 08:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 15, 0, 0, time.Local), v)

	v, err = domain.ParseValue(domain.FieldTypeOpaque, "anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", v)

	for _, tt := range []struct {
		ft   domain.FieldType
		text string
	}{
		{domain.FieldTypeInteger, "abc"},
		{domain.FieldTypeInteger, "1.5"},
		{domain.FieldTypeFloat, ""},
		{domain.FieldTypeBoolean, "maybe"},
		{domain.FieldTypeTimestamp, "yesterday"},
	} {
		t.Run(fmt.Sprintf("%s/%s", tt.ft, tt.text), func(t *testing.T) {
			_, err := domain.ParseValue(tt.ft, tt.text)
			assert.ErrorIs(t, err, domain.ErrInvalidValue)
		})
	}
}

func TestParseYesNo(t *testing.T) {
	for _, in := range []string{"y", "YES", "true", "1"} {
		v, ok := domain.ParseYesNo(in)
		assert.True(t, ok, in)
		assert.True(t, v, in)
	}
	for _, in := range []string{"n", "No", "false", "0"} {
		v, ok := domain.ParseYesNo(in)
		assert.True(t, ok, in)
		assert.False(t, v, in)
	}
	_, ok := domain.ParseYesNo("sure")
	assert.False(t, ok)
}
