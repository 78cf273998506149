// Package pgtest gives tests a fresh postgres schema.
//
// Tests using it are skipped unless ORCAOBRA_TEST_DB_URI is set.
package pgtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/opst/orcaobra/pkg/conn/db/postgres/pool"
	kpgschema "github.com/opst/orcaobra/pkg/domain/schema/db/postgres"
)

const EnvURI = "ORCAOBRA_TEST_DB_URI"

// SchemaRepository is the path of schema/postgres in this repository.
func SchemaRepository() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "schema", "postgres")
}

// Pool connects to the test database with a new schema on its search_path.
// The schema is upgraded to the latest version, and dropped on cleanup.
func Pool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()
	uri := os.Getenv(EnvURI)
	if uri == "" {
		t.Skipf("%s is not set", EnvURI)
	}

	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := pgxpool.Connect(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := admin.Exec(ctx, `create schema "`+name+`"`); err != nil {
		admin.Close()
		t.Fatal(err)
	}
	t.Cleanup(func() {
		defer admin.Close()
		if _, err := admin.Exec(context.Background(), `drop schema "`+name+`" cascade`); err != nil {
			t.Logf("failed to drop %s: %v", name, err)
		}
	})

	conf, err := pgxpool.ParseConfig(uri)
	if err != nil {
		t.Fatal(err)
	}
	conf.ConnConfig.RuntimeParams["search_path"] = name
	p, err := pgxpool.ConnectConfig(ctx, conf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)

	pool := kpool.Wrap(p)
	if _, err := kpgschema.New(pool, SchemaRepository()).Upgrade(ctx); err != nil {
		t.Fatal(err)
	}
	return pool
}
