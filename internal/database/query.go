package database

import (
	"strings"
)

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
//
// Example:
//
//	input:    "SELECT png FROM renders WHERE input = ? AND size = ?"
//	SQLite:   "SELECT png FROM renders WHERE input = ? AND size = ?"
//	Postgres: "SELECT png FROM renders WHERE input = $1 AND size = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	result.Grow(len(query) + 8)
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}

// Schema substitutes dialect column types into a DDL template. {{blob}} is
// replaced by the dialect's byte column type.
func (qb *QueryBuilder) Schema(ddl string) string {
	return strings.ReplaceAll(ddl, "{{blob}}", qb.dialect.BlobType())
}
