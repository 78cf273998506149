package db

import (
	kaccount "github.com/opst/orcaobra/pkg/domain/account/db"
	kbudget "github.com/opst/orcaobra/pkg/domain/budget/db"
	kcatalog "github.com/opst/orcaobra/pkg/domain/catalog/db"
	kphotoreport "github.com/opst/orcaobra/pkg/domain/photoreport/db"
	kschema "github.com/opst/orcaobra/pkg/domain/schema/db"
)

type Database interface {
	Budget() kbudget.BudgetInterface
	Catalog() kcatalog.CatalogInterface
	PhotoReport() kphotoreport.PhotoReportInterface
	Account() kaccount.AccountInterface
	Schema() kschema.SchemaInterface
	Close() error
}
