package db

import (
	"strconv"
	"strings"
)

// Dialect selects the SQL flavor of a connection.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// Placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Placeholders returns count comma-separated bind parameters starting at from.
// Only the placeholder structure is interpolated; values stay parameterized.
func (d Dialect) Placeholders(from, count int) string {
	ph := make([]string, count)
	for i := range ph {
		ph[i] = d.Placeholder(from + i)
	}
	return strings.Join(ph, ",")
}

// RealType is the column type used for floating point values.
func (d Dialect) RealType() string {
	if d == SQLite {
		return "REAL"
	}
	return "DOUBLE PRECISION"
}
