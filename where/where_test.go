package where

import (
	"testing"
)

func TestCompileSimpleEquality(t *testing.T) {
	b := NewBuilder(nil, DocumentResolver{Column: "document"})

	sql, err := b.Compile(Predicate{"name": {"eq": "Widget A"}})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	expected := "(document->>'name') = 'Widget A'"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}
}

func TestCompileEmptyFilters(t *testing.T) {
	b := NewBuilder(nil, nil)
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"nil node", nil, ""},
		{"empty predicate", Predicate{}, ""},
		{"all-null operators", Predicate{"name": {"eq": nil, "neq": nil}}, ""},
		{"empty and", And{}, ""},
		{"and of empties", And{Predicate{}, Predicate{"x": {"eq": nil}}}, ""},
		{"empty or matches nothing", Or{}, "FALSE"},
		{"or of empties matches nothing", Or{Predicate{}, Predicate{}}, "FALSE"},
		{"not of empty", Not{Child: Predicate{}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := b.Compile(tt.node)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			if sql != tt.expected {
				t.Errorf("expected '%s', got '%s'", tt.expected, sql)
			}
		})
	}
}

func TestCompileMultipleOperatorsOneField(t *testing.T) {
	b := NewBuilder(nil, nil)

	sql, err := b.Compile(Predicate{"price": {"gte": 10, "lte": 50}})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	expected := "((data->>'price')::numeric >= 10 AND (data->>'price')::numeric <= 50)"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}
}

func TestCompileNestedTree(t *testing.T) {
	b := NewBuilder(nil, nil)

	// category = electronics AND (price < 50 OR stock > 100) AND NOT is_active = false
	tree := And{
		Predicate{"category": {"eq": "electronics"}},
		Or{
			Predicate{"price": {"lt": 50}},
			Predicate{"stock": {"gt": 100}},
		},
		Not{Child: Predicate{"isActive": {"eq": false}}},
	}

	sql, err := b.Compile(tree)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	expected := "((data->>'category') = 'electronics' AND " +
		"((data->>'price')::numeric < 50 OR (data->>'stock')::numeric > 100) AND " +
		"NOT ((data->>'is_active')::boolean = 'false'::boolean))"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}
}

func TestCompileSingleChildCollapses(t *testing.T) {
	b := NewBuilder(nil, nil)

	sql, err := b.Compile(And{Predicate{"name": {"eq": "x"}}})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if sql != "(data->>'name') = 'x'" {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestCompileNestedFieldPath(t *testing.T) {
	b := NewBuilder(nil, nil)

	sql, err := b.Compile(Predicate{"address.city": {"eq": "Paris"}})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	expected := "(data->'address'->>'city') = 'Paris'"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}
}

func TestCompileCamelCaseFieldName(t *testing.T) {
	b := NewBuilder(nil, nil)

	sql, err := b.Compile(Predicate{"ipAddress": {"eq": "10.0.0.1"}})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	expected := "(data->>'ip_address') = '10.0.0.1'"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}
}

func TestCompileDeterministic(t *testing.T) {
	b := NewBuilder(nil, nil)

	tree := Predicate{
		"name":     {"eq": "Widget A", "neq": "Widget B"},
		"price":    {"lt": 50},
		"category": {"in": []any{"a", "b", "c"}},
	}

	first, err := b.Compile(tree)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := b.Compile(tree)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if again != first {
			t.Fatalf("compilation not deterministic:\n%s\n%s", first, again)
		}
	}

	// Sorted fields and operators: category before name, eq before neq.
	expected := "((data->>'category') IN ('a', 'b', 'c') AND " +
		"(data->>'name') = 'Widget A' AND (data->>'name') != 'Widget B' AND " +
		"(data->>'price')::numeric < 50)"
	if first != expected {
		t.Errorf("expected '%s', got '%s'", expected, first)
	}
}

func TestCompileErrorAbortsWholeTree(t *testing.T) {
	b := NewBuilder(nil, nil)

	tree := And{
		Predicate{"name": {"eq": "valid"}},
		Predicate{"status": {"in": "not-a-list"}},
	}
	if _, err := b.Compile(tree); err == nil {
		t.Fatal("expected error, got none")
	}
}

func TestCompileInjectionStaysQuoted(t *testing.T) {
	b := NewBuilder(nil, nil)

	sql, err := b.Compile(Predicate{"name": {"eq": "'; DROP TABLE users; --"}})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	expected := "(data->>'name') = '''; DROP TABLE users; --'"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}
}
