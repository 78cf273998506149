// Package scanner reads pgx rows into structs.
//
// Columns are matched to fields
//
//  1. by tag `db:"column_name"`,
//  2. or, by field name in CamelCase of the column name ("unit_price" -> "UnitPrice").
//
// A type which is not a struct (or is time.Time) is read as a single column.
//
//	type row struct {
//		Code      string
//		UnitPrice int64
//		Stage     string `db:"stage_name"`
//	}
//
//	rows, err := scanner.New[row]().QueryAll(ctx, conn, `select "code", "unit_price", "stage_name" from "catalog_item"`)
package scanner

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type Queryer interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
}

type Scanner[T any] interface {
	// ScanAll reads every row and closes rows.
	ScanAll(pgx.Rows) ([]T, error)

	// QueryAll sends the query and reads every row of the result.
	QueryAll(ctx context.Context, conn Queryer, sql string, args ...any) ([]T, error)
}

func New[T any]() Scanner[T] {
	t := reflect.TypeOf(*new(T))
	if t.Kind() != reflect.Struct || t == reflect.TypeOf(time.Time{}) {
		return singleColumn[T]{}
	}

	fields := map[string]int{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup("db"); ok {
			fields[tag] = i
			continue
		}
		if _, ok := fields[f.Name]; !ok {
			fields[f.Name] = i
		}
	}
	return structScanner[T]{fields: fields}
}

type structScanner[T any] struct {
	fields map[string]int
}

func (s structScanner[T]) ScanAll(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	descs := rows.FieldDescriptions()
	index := make([]int, len(descs))
	for nth, fd := range descs {
		col := string(fd.Name)
		i, ok := s.fields[col]
		if !ok {
			i, ok = s.fields[camel(col)]
		}
		if !ok {
			return nil, fmt.Errorf(
				`no field for column "%s" (%s) in %T`, col, typeName(fd.DataTypeOID), *new(T),
			)
		}
		index[nth] = i
	}

	ret := []T{}
	dest := make([]any, len(index))
	for rows.Next() {
		elem := new(T)
		v := reflect.ValueOf(elem).Elem()
		for nth, i := range index {
			dest[nth] = v.Field(i).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		ret = append(ret, *elem)
	}
	return ret, rows.Err()
}

func (s structScanner[T]) QueryAll(ctx context.Context, conn Queryer, sql string, args ...any) ([]T, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return s.ScanAll(rows)
}

type singleColumn[T any] struct{}

func (singleColumn[T]) ScanAll(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	if descs := rows.FieldDescriptions(); len(descs) != 1 {
		return nil, fmt.Errorf("%d columns for %T, want 1", len(descs), *new(T))
	}

	ret := []T{}
	for rows.Next() {
		var elem T
		if err := rows.Scan(&elem); err != nil {
			return nil, err
		}
		ret = append(ret, elem)
	}
	return ret, rows.Err()
}

func (s singleColumn[T]) QueryAll(ctx context.Context, conn Queryer, sql string, args ...any) ([]T, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return s.ScanAll(rows)
}

// camel converts snake_case into CamelCase.
func camel(s string) string {
	b := new(strings.Builder)
	for _, w := range strings.Split(s, "_") {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

var connInfo = pgtype.NewConnInfo()

func typeName(oid uint32) string {
	if dt, ok := connInfo.DataTypeForOID(oid); ok {
		return dt.Name
	}
	return fmt.Sprintf("oid %d", oid)
}
