// Package domain has the domain models of orcaobra: budgets, reference
// prices, photo reports and user accounts.
//
// `domain/ENTITY.go` has the model types and the rules on them.
// For example, `domain/budget.go` has Budget and how it is summed up.
//
// `domain/ENTITY/db` has the persistence interface of the entity, and
// `domain/ENTITY/db/postgres` implements it. `domain/ENTITY/db/mock` is the
// hand-written mock for tests.
//
// `domain/orcaobra` bundles all of them as the root object. Entrypoints
// instantiate it and reach entities through it.
package domain
