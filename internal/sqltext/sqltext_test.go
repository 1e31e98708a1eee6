package sqltext

import "testing"

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"hello", "'hello'"},
		{"", "''"},
		{"it's", "'it''s'"},
		{"'; DROP TABLE users; --", "'''; DROP TABLE users; --'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := QuoteLiteral(tt.in); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"data", "data"},
		{"tv_product", "tv_product"},
		{"select", `"select"`},
		{"with space", `"with space"`},
		{"", `""`},
		{"3col", `"3col"`},
		{`odd"name`, `"odd""name"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := QuoteIdentifier(tt.in); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestQuoteQualifiedIdentifier(t *testing.T) {
	if got := QuoteQualifiedIdentifier("public.tv_product"); got != "public.tv_product" {
		t.Errorf("unexpected: %s", got)
	}
	if got := QuoteQualifiedIdentifier("order.items"); got != `"order".items` {
		t.Errorf("unexpected: %s", got)
	}
}

func TestToSnake(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"id", "id"},
		{"ipAddress", "ip_address"},
		{"firstName", "first_name"},
		{"already_snake", "already_snake"},
		{"HTMLBody", "h_t_m_l_body"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ToSnake(tt.in); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
