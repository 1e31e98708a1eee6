package plancache

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fraiseql/fraiseql-go/query"
)

func TestCachePutGet(t *testing.T) {
	c, err := New(8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	q := query.DatabaseQuery{
		SQL:         "SELECT data AS result FROM products WHERE (data->>'name') = 'Widget A'",
		FetchResult: true,
	}
	if err := c.Put("products|find|sig", q); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := c.Get("products|find|sig")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.SQL != q.SQL {
		t.Errorf("expected '%s', got '%s'", q.SQL, got.SQL)
	}
	if !got.FetchResult {
		t.Error("FetchResult not preserved")
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected cache hit")
	}
}

func TestCacheCompressesLargeStatements(t *testing.T) {
	c, err := New(8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	q := query.DatabaseQuery{
		SQL:         "SELECT " + strings.Repeat("data->>'field', ", 500) + "data AS result FROM products",
		FetchResult: true,
	}
	if err := c.Put("big", q); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := c.Get("big")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.SQL != q.SQL {
		t.Error("large statement not preserved through compression")
	}
}

func TestCacheBounded(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := c.Put(key, query.DatabaseQuery{SQL: key}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if c.Len() > 4 {
		t.Errorf("expected at most 4 entries, got %d", c.Len())
	}
}

func TestCacheOverwrite(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	if err := c.Put("k", query.DatabaseQuery{SQL: "one"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := c.Put("k", query.DatabaseQuery{SQL: "two"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := c.Get("k")
	if !ok || got.SQL != "two" {
		t.Errorf("expected overwritten entry, got %+v ok=%v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}
