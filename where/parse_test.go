package where

import "testing"

func TestParseJSONPredicate(t *testing.T) {
	node, err := ParseJSON([]byte(`{"name": {"eq": "Widget A"}}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	sql, err := NewBuilder(nil, nil).Compile(node)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if sql != "(data->>'name') = 'Widget A'" {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestParseJSONLogicalTree(t *testing.T) {
	node, err := ParseJSON([]byte(`{
		"and": [
			{"category": {"eq": "electronics"}},
			{"or": [{"price": {"lt": 50}}, {"stock": {"gt": 100}}]},
			{"not": {"isActive": {"eq": false}}}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	and, ok := node.(And)
	if !ok {
		t.Fatalf("expected And node, got %T", node)
	}
	if len(and) != 3 {
		t.Fatalf("expected 3 children, got %d", len(and))
	}
	if _, ok := and[1].(Or); !ok {
		t.Errorf("expected Or child, got %T", and[1])
	}
	if _, ok := and[2].(Not); !ok {
		t.Errorf("expected Not child, got %T", and[2])
	}
}

func TestParseJSONEmpty(t *testing.T) {
	for _, input := range []string{"", "null"} {
		node, err := ParseJSON([]byte(input))
		if err != nil {
			t.Fatalf("ParseJSON(%q) failed: %v", input, err)
		}
		if node != nil {
			t.Errorf("expected nil node for %q, got %T", input, node)
		}
	}

	node, err := ParseJSON([]byte("{}"))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	sql, err := NewBuilder(nil, nil).Compile(node)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if sql != "" {
		t.Errorf("expected no predicate, got %s", sql)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an object", `["a"]`},
		{"bad operator object", `{"name": "Widget A"}`},
		{"bad and", `{"and": {"name": {"eq": "x"}}}`},
		{"bad not", `{"not": [1]}`},
		{"malformed json", `{"name"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(tt.input)); err == nil {
				t.Error("expected error, got none")
			}
		})
	}
}

// A field literally named "and" beside other fields parses as a predicate
// field, not a logical node.
func TestParseJSONLogicalKeyNeedsSoleKey(t *testing.T) {
	node, err := ParseJSON([]byte(`{"and": {"eq": "x"}, "name": {"eq": "y"}}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	p, ok := node.(Predicate)
	if !ok {
		t.Fatalf("expected Predicate, got %T", node)
	}
	if len(p) != 2 {
		t.Errorf("expected 2 fields, got %d", len(p))
	}
}
