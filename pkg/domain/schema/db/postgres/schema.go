package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/opst/orcaobra/pkg/conn/db/postgres/pool"
	kschema "github.com/opst/orcaobra/pkg/domain/schema/db"
	xe "github.com/opst/orcaobra/pkg/errors"
)

type pgSchema struct {
	pool       kpool.Pool
	repository string
}

// New returns a schema manager reading versions from repository.
//
// repository has one directory per version, named by its number
// ("1", "2", ...). *.sql files in a version directory are applied in
// lexical order.
func New(pool kpool.Pool, repository string) kschema.SchemaInterface {
	return &pgSchema{pool: pool, repository: repository}
}

type version struct {
	Number int
	Files  []string
}

func (v version) apply(ctx context.Context, q kpool.Queryer) error {
	for _, f := range v.Files {
		query, err := os.ReadFile(f)
		if err != nil {
			return xe.Wrap(err)
		}
		if _, err := q.Exec(ctx, string(query)); err != nil {
			return fmt.Errorf("schema version %d, %s: %w", v.Number, filepath.Base(f), err)
		}
	}
	return nil
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.pool)
}

func currentVersion(ctx context.Context, q kpool.Queryer) (int, error) {
	var v *int
	err := q.QueryRow(ctx, `select max("version") from "schema_version"`).Scan(&v)
	if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UndefinedTable {
		return 0, nil
	}
	if err != nil {
		return -1, xe.Wrap(err)
	}
	if v == nil {
		return 0, nil
	}
	return *v, nil
}

func (s *pgSchema) Latest() (int, error) {
	vs, err := s.versions()
	if err != nil {
		return -1, err
	}
	if len(vs) == 0 {
		return 0, nil
	}
	return vs[len(vs)-1].Number, nil
}

func (s *pgSchema) Upgrade(ctx context.Context) ([]int, error) {
	vs, err := s.versions()
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// serialize concurrent upgraders.
	if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock(hashtext('orcaobra.schema'))`); err != nil {
		return nil, xe.Wrap(err)
	}

	// the version table may not exist yet; probe it in a savepoint so that
	// a failure does not abort the whole transaction.
	current, err := func() (int, error) {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return -1, err
		}
		defer sp.Rollback(ctx)
		v, err := currentVersion(ctx, sp)
		if err != nil {
			return -1, err
		}
		return v, sp.Commit(ctx)
	}()
	if err != nil {
		return nil, err
	}

	applied := []int{}
	for _, v := range vs {
		if v.Number <= current {
			continue
		}
		if err := v.apply(ctx, tx); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `delete from "schema_version"`); err != nil {
			return nil, xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx, `insert into "schema_version" ("version") values ($1)`, v.Number,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		applied = append(applied, v.Number)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return applied, nil
}

func (s *pgSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancelCause(ctx)

	check := func() {
		latest, err := s.Latest()
		if err != nil {
			cancel(fmt.Errorf("failed to read schema repository: %w", err))
			return
		}
		current, err := s.Version(cctx)
		if err != nil {
			cancel(fmt.Errorf("failed to get schema version: %w", err))
			return
		}
		if current < latest {
			cancel(fmt.Errorf(
				"schema is outdated: %d (in database) < %d (in repository)", current, latest,
			))
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return cctx, func() {}
	}
	if err := w.Add(s.repository); err != nil {
		w.Close()
		cancel(err)
		return cctx, func() {}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				check()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(err)
				return
			}
		}
	}()

	check()
	return cctx, func() { cancel(nil) }
}

// versions lists the schema repository, ordered by version number.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := os.ReadDir(s.repository)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	vs := []version{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil || n <= 0 {
			continue
		}

		dir := filepath.Join(s.repository, e.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		v := version{Number: n}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
				continue
			}
			v.Files = append(v.Files, filepath.Join(dir, f.Name()))
		}
		vs = append(vs, v)
	}
	slices.SortFunc(vs, func(a, b version) int { return a.Number - b.Number })
	return vs, nil
}

// ErrNoRepository is returned by Null().Upgrade.
var ErrNoRepository = errors.New("no schema repository available")

// Null returns a schema manager for a server without a schema repository.
// It never cancels the context.
func Null() kschema.SchemaInterface {
	return nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(context.Context) ([]int, error) { return nil, ErrNoRepository }

func (nullSchema) Version(context.Context) (int, error) { return -1, nil }

func (nullSchema) Latest() (int, error) { return -1, nil }

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctx, func() {}
}
