package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

func setupPGX(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not construct pool: %s", err)
	}

	if err := pool.Client.Ping(); err != nil {
		t.Fatalf("Could not connect to Docker: %s", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=test",
			"POSTGRES_USER=test",
			"POSTGRES_DB=test",
			"listen_addresses='*'",
			"fsync='off'",
			"full_page_writes='off'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(120) //nolint:errcheck

	dsn := fmt.Sprintf("postgres://test:test@%s/test?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var db *pgxpool.Pool
	pool.MaxWait = 120 * time.Second
	if err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		var err error
		db, err = pgxpool.New(ctx, dsn)
		if err != nil {
			return err
		}
		return db.Ping(ctx)
	}); err != nil {
		t.Fatalf("Could not connect to docker: %s", err)
	}

	t.Cleanup(func() {
		db.Close()
		if err := pool.Purge(resource); err != nil {
			t.Fatalf("Could not purge resource: %s", err)
		}
	})

	return db
}

// createProductsView creates a products table holding one JSONB document
// per row, with 5 fixture rows.
func createProductsView(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	if _, err := db.Exec(ctx, `
		CREATE TABLE v_products (
			"id" serial PRIMARY KEY,
			"data" jsonb
		);
	`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(ctx, `
		INSERT INTO v_products ("data") VALUES
			('{"id": 1, "name": "Widget A", "category": "electronics", "price": 30,  "stock": 5,   "is_active": true,  "ip_address": "192.168.1.10"}'),
			('{"id": 2, "name": "Widget B", "category": "electronics", "price": 80,  "stock": 200, "is_active": true,  "ip_address": "10.0.0.5"}'),
			('{"id": 3, "name": "Widget C", "category": "electronics", "price": 60,  "stock": 40,  "is_active": true,  "ip_address": "8.8.8.8"}'),
			('{"id": 4, "name": "Widget D", "category": "toys",        "price": 20,  "stock": 300, "is_active": true,  "ip_address": "172.16.0.9"}'),
			('{"id": 5, "name": "Widget E", "category": "electronics", "price": 10,  "stock": 500, "is_active": false, "ip_address": "192.168.1.20"}');
	`); err != nil {
		t.Fatal(err)
	}
}
