package where

import (
	"errors"
	"testing"
)

func TestRenderValueInference(t *testing.T) {
	tests := []struct {
		name        string
		value       any
		wantLiteral string
		wantCast    string
	}{
		{"plain string", "Widget A", "'Widget A'", ""},
		{"escaped string", "O'Brien", "'O''Brien'", ""},
		{"uuid string", "550e8400-e29b-41d4-a716-446655440000", "'550e8400-e29b-41d4-a716-446655440000'::uuid", "::uuid"},
		{"uppercase uuid canonicalized", "550E8400-E29B-41D4-A716-446655440000", "'550e8400-e29b-41d4-a716-446655440000'::uuid", "::uuid"},
		{"date string", "2024-01-15", "'2024-01-15'::date", "::date"},
		{"timestamp string", "2024-01-15T10:30:00Z", "'2024-01-15T10:30:00Z'::timestamptz", "::timestamptz"},
		{"not quite a date", "2024-13-45", "'2024-13-45'", ""},
		{"bool true", true, "'true'::boolean", "::boolean"},
		{"bool false", false, "'false'::boolean", "::boolean"},
		{"int", 42, "42", "::numeric"},
		{"integral float", float64(42), "42", "::numeric"},
		{"fractional float", 19.99, "19.99", "::numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv, err := renderValue(tt.value, TypeGeneric)
			if err != nil {
				t.Fatalf("renderValue failed: %v", err)
			}
			if sv.literal != tt.wantLiteral {
				t.Errorf("literal: expected '%s', got '%s'", tt.wantLiteral, sv.literal)
			}
			if sv.cast != tt.wantCast {
				t.Errorf("cast: expected '%s', got '%s'", tt.wantCast, sv.cast)
			}
		})
	}
}

func TestRenderValueDeclaredType(t *testing.T) {
	tests := []struct {
		name        string
		value       any
		declared    DeclaredType
		wantLiteral string
	}{
		{"declared uuid", "550e8400-e29b-41d4-a716-446655440000", TypeUUID, "'550e8400-e29b-41d4-a716-446655440000'::uuid"},
		{"declared date", "2024-01-15", TypeDate, "'2024-01-15'::date"},
		{"declared timestamp", "2024-01-15T10:30:00Z", TypeTimestamp, "'2024-01-15T10:30:00Z'::timestamptz"},
		{"daterange literal", "[2024-01-01,2024-06-30]", TypeDateRange, "'[2024-01-01,2024-06-30]'::daterange"},
		{"ltree path", "top.science.astronomy", TypeLTree, "'top.science.astronomy'::ltree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv, err := renderValue(tt.value, tt.declared)
			if err != nil {
				t.Fatalf("renderValue failed: %v", err)
			}
			if sv.literal != tt.wantLiteral {
				t.Errorf("expected '%s', got '%s'", tt.wantLiteral, sv.literal)
			}
		})
	}
}

func TestRenderValueDateRangeBounds(t *testing.T) {
	sv, err := renderValue(map[string]any{"from": "2024-01-01", "to": "2024-06-30"}, TypeDateRange)
	if err != nil {
		t.Fatalf("renderValue failed: %v", err)
	}
	expected := "'[2024-01-01,2024-06-30]'::daterange"
	if sv.literal != expected {
		t.Errorf("expected '%s', got '%s'", expected, sv.literal)
	}

	// An open bound renders as an unbounded range side.
	sv, err = renderValue(map[string]any{"from": "2024-01-01"}, TypeDateRange)
	if err != nil {
		t.Fatalf("renderValue failed: %v", err)
	}
	expected = "'[2024-01-01,]'::daterange"
	if sv.literal != expected {
		t.Errorf("expected '%s', got '%s'", expected, sv.literal)
	}
}

func TestRenderValueInvalid(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		declared DeclaredType
	}{
		{"bad uuid", "not-a-uuid", TypeUUID},
		{"bad date", "January 15", TypeDate},
		{"bad timestamp", "2024-01-15", TypeTimestamp},
		{"bad range bound", map[string]any{"from": "nope"}, TypeDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderValue(tt.value, tt.declared)
			var inv *InvalidOperatorArgumentError
			if !errors.As(err, &inv) {
				t.Errorf("expected InvalidOperatorArgumentError, got %v", err)
			}
		})
	}
}

func TestRenderValueUnsupportedType(t *testing.T) {
	_, err := renderValue(map[string]any{"anything": 1}, TypeGeneric)
	var unsupported *UnsupportedValueTypeError
	if !errors.As(err, &unsupported) {
		t.Errorf("expected UnsupportedValueTypeError, got %v", err)
	}
}
