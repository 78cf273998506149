package postgres

import (
	"context"

	kpool "github.com/opst/orcaobra/pkg/conn/db/postgres/pool"
	kaccount "github.com/opst/orcaobra/pkg/domain/account/db"
	kpgaccount "github.com/opst/orcaobra/pkg/domain/account/db/postgres"
	kbudget "github.com/opst/orcaobra/pkg/domain/budget/db"
	kpgbudget "github.com/opst/orcaobra/pkg/domain/budget/db/postgres"
	kcatalog "github.com/opst/orcaobra/pkg/domain/catalog/db"
	kpgcatalog "github.com/opst/orcaobra/pkg/domain/catalog/db/postgres"
	dbInterface "github.com/opst/orcaobra/pkg/domain/orcaobra/db"
	kphotoreport "github.com/opst/orcaobra/pkg/domain/photoreport/db"
	kpgphotoreport "github.com/opst/orcaobra/pkg/domain/photoreport/db/postgres"
	kschema "github.com/opst/orcaobra/pkg/domain/schema/db"
	kpgschema "github.com/opst/orcaobra/pkg/domain/schema/db/postgres"
	xe "github.com/opst/orcaobra/pkg/errors"
)

type pgDatabase struct {
	pool        kpool.Pool
	budget      kbudget.BudgetInterface
	catalog     kcatalog.CatalogInterface
	photoReport kphotoreport.PhotoReportInterface
	account     kaccount.AccountInterface
	schema      kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

// New connects to the database at uri.
func New(ctx context.Context, uri string, options ...Option) (dbInterface.Database, error) {
	pool, err := kpool.Connect(ctx, uri)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return Attach(pool, options...), nil
}

// Attach builds the database over an opened pool.
func Attach(pool kpool.Pool, options ...Option) dbInterface.Database {
	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	schema := kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(pool, c.SchemaRepository)
	}

	return &pgDatabase{
		pool:        pool,
		budget:      kpgbudget.New(pool),
		catalog:     kpgcatalog.New(pool),
		photoReport: kpgphotoreport.New(pool),
		account:     kpgaccount.New(pool),
		schema:      schema,
	}
}

func (d *pgDatabase) Budget() kbudget.BudgetInterface {
	return d.budget
}

func (d *pgDatabase) Catalog() kcatalog.CatalogInterface {
	return d.catalog
}

func (d *pgDatabase) PhotoReport() kphotoreport.PhotoReportInterface {
	return d.photoReport
}

func (d *pgDatabase) Account() kaccount.AccountInterface {
	return d.account
}

func (d *pgDatabase) Schema() kschema.SchemaInterface {
	return d.schema
}

func (d *pgDatabase) Close() error {
	d.pool.Close()
	return nil
}
