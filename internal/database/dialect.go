package database

import (
	"fmt"
	"strings"
)

// Namespace is the catalog+schema pair a table lives in. Either part may be empty.
type Namespace struct {
	Catalog string
	Schema  string
}

func (n Namespace) String() string {
	switch {
	case n.Catalog == "" && n.Schema == "":
		return "<none>"
	case n.Catalog == "":
		return n.Schema
	default:
		return n.Catalog + "." + n.Schema
	}
}

// Dialect captures the statement differences between the supported warehouses.
type Dialect struct {
	Name string
	// quote is the identifier quote character.
	quote string
	// currentNamespace selects the ambient (catalog, schema) of the session.
	currentNamespace string
	// catalogs is false when the engine has no catalog level above schemas.
	catalogs bool
	// schemaDDL reports whether CREATE SCHEMA is supported at all.
	schemaDDL   bool
	types       map[ColumnType]string
	tableSuffix string
}

var Databricks = Dialect{
	Name:             "databricks",
	quote:            "`",
	currentNamespace: "SELECT current_catalog(), current_schema()",
	catalogs:         true,
	schemaDDL:        true,
	types: map[ColumnType]string{
		TypeString:    "STRING",
		TypeInt:       "INT",
		TypeBool:      "BOOLEAN",
		TypeTimestamp: "TIMESTAMP",
	},
	tableSuffix: " USING DELTA",
}

var Postgres = Dialect{
	Name:             "postgres",
	quote:            `"`,
	currentNamespace: "SELECT current_database(), current_schema()",
	catalogs:         true,
	schemaDDL:        true,
	types: map[ColumnType]string{
		TypeString:    "TEXT",
		TypeInt:       "INTEGER",
		TypeBool:      "BOOLEAN",
		TypeTimestamp: "TIMESTAMP",
	},
}

var SQLite = Dialect{
	Name:             "sqlite",
	quote:            `"`,
	currentNamespace: "SELECT 'main', 'main'",
	catalogs:         false,
	schemaDDL:        false,
	types: map[ColumnType]string{
		TypeString:    "TEXT",
		TypeInt:       "INTEGER",
		TypeBool:      "BOOLEAN",
		TypeTimestamp: "TIMESTAMP",
	},
}

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "databricks":
		return Databricks, nil
	case "postgres", "pq":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported warehouse driver %q", driver)
}

// Quote quotes a single identifier, doubling any embedded quote characters.
func (d Dialect) Quote(ident string) string {
	return d.quote + strings.ReplaceAll(ident, d.quote, d.quote+d.quote) + d.quote
}

// Qualify builds the quoted location of table inside ns, skipping empty parts
// and the catalog on engines without one.
func (d Dialect) Qualify(ns Namespace, table string) string {
	var parts []string
	if d.catalogs && ns.Catalog != "" {
		parts = append(parts, d.Quote(ns.Catalog))
	}
	if ns.Schema != "" {
		parts = append(parts, d.Quote(ns.Schema))
	}
	parts = append(parts, d.Quote(table))
	return strings.Join(parts, ".")
}

// Complete reports whether ns names a namespace this dialect can address.
func (d Dialect) Complete(ns Namespace) bool {
	if ns.Schema == "" {
		return false
	}
	return ns.Catalog != "" || !d.catalogs
}

// CreateSchemaSQL returns the idempotent schema DDL for ns, or false when the
// dialect cannot create schemas.
func (d Dialect) CreateSchemaSQL(ns Namespace) (string, bool) {
	if !d.schemaDDL || ns.Schema == "" {
		return "", false
	}
	target := d.Quote(ns.Schema)
	// postgres schemas always live in the connected database
	if d.Name == Databricks.Name && ns.Catalog != "" {
		target = d.Quote(ns.Catalog) + "." + target
	}
	return "CREATE SCHEMA IF NOT EXISTS " + target, true
}

// CreateTableSQL renders the canonical table DDL for kind at location.
func (d Dialect) CreateTableSQL(location string, kind RecordKind) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(location)
	b.WriteString(" (\n")
	cols := Columns(kind)
	for i, c := range cols {
		b.WriteString("  ")
		b.WriteString(c.Name)
		b.WriteString(" ")
		b.WriteString(d.types[c.Type])
		if i < len(cols)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	b.WriteString(d.tableSuffix)
	return b.String()
}
