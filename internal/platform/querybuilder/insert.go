package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

type conflictAction int

const (
	conflictNone conflictAction = iota
	conflictDoNothing
	conflictDoUpdate
)

type InsertBuilder struct {
	table     string
	columns   []string
	rows      [][]any
	target    []string
	action    conflictAction
	updates   []string
	returning []string
	err       error
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append(b.columns[:0], columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// OnConflict names the conflict target. Follow it with DoNothing or DoUpdate.
// An empty target matches any unique violation and only works with DoNothing.
func (b *InsertBuilder) OnConflict(columns ...string) *InsertBuilder {
	b.target = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) DoNothing() *InsertBuilder {
	b.action = conflictDoNothing
	return b
}

// DoUpdate overwrites columns with the values from the rejected row.
func (b *InsertBuilder) DoUpdate(columns ...string) *InsertBuilder {
	b.action = conflictDoUpdate
	b.updates = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.err != nil:
		return "", nil, b.err
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("insert table is required")
	case len(b.columns) == 0:
		return "", nil, errors.New("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, errors.New("insert values are required")
	case b.action == conflictDoUpdate && (len(b.target) == 0 || len(b.updates) == 0):
		return "", nil, errors.New("on conflict do update needs a target and columns")
	}

	w := &writer{}
	fmt.Fprintf(&w.buf, "INSERT INTO %s (%s) VALUES ", b.table, strings.Join(b.columns, ", "))
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			w.buf.WriteString(", ")
		}
		w.list(row)
	}
	b.writeConflict(w)
	writeReturning(w, b.returning)
	return w.buf.String(), w.args, nil
}

func (b *InsertBuilder) writeConflict(w *writer) {
	if b.action == conflictNone {
		return
	}
	w.buf.WriteString(" ON CONFLICT")
	if len(b.target) > 0 {
		fmt.Fprintf(&w.buf, " (%s)", strings.Join(b.target, ", "))
	}
	if b.action == conflictDoNothing {
		w.buf.WriteString(" DO NOTHING")
		return
	}
	w.buf.WriteString(" DO UPDATE SET ")
	for i, col := range b.updates {
		if i > 0 {
			w.buf.WriteString(", ")
		}
		fmt.Fprintf(&w.buf, "%s = EXCLUDED.%s", col, col)
	}
}

func writeReturning(w *writer, columns []string) {
	if len(columns) > 0 {
		w.buf.WriteString(" RETURNING ")
		w.buf.WriteString(strings.Join(columns, ", "))
	}
}
