// Package filter holds the boolean filter expressions produced by a
// hierarchy slicer: column equality comparisons joined by AND and OR.
//
// Expressions are built and persisted, never evaluated.
package filter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vdobler/vizcore/hierarchy"
)

// Expr is a filter expression.
type Expr interface {
	fmt.Stringer
	expr()
}

// Compare is the predicate Column == Value. A nil Value matches missing
// values.
type Compare struct {
	Column string
	Value  any
}

type And struct{ Left, Right Expr }

type Or struct{ Left, Right Expr }

func (Compare) expr() {}
func (And) expr()     {}
func (Or) expr()      {}

func (c Compare) String() string {
	if c.Value == nil {
		return c.Column + " IS NULL"
	}
	return c.Column + " = " + literal(c.Value)
}

func (a And) String() string { return "(" + a.Left.String() + " AND " + a.Right.String() + ")" }
func (o Or) String() string  { return "(" + o.Left.String() + " OR " + o.Right.String() + ")" }

func literal(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case time.Time:
		return strconv.Quote(v.Format(time.RFC3339))
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// Builder creates filter expressions over named columns. It is the
// hierarchy.Host of slicers whose levels are table columns.
type Builder struct {
	Columns []string
}

func (b Builder) Equal(column int, value any) hierarchy.Expr {
	name := fmt.Sprintf("column%d", column)
	if column >= 0 && column < len(b.Columns) {
		name = b.Columns[column]
	}
	return Compare{Column: name, Value: value}
}

func (Builder) And(a, b hierarchy.Expr) hierarchy.Expr {
	return And{Left: a.(Expr), Right: b.(Expr)}
}

func (Builder) Or(a, b hierarchy.Expr) hierarchy.Expr {
	return Or{Left: a.(Expr), Right: b.(Expr)}
}

var _ hierarchy.Host = Builder{}

// Of converts the result of hierarchy.Tree.Filter. It returns nil when
// there is no filter.
func Of(e hierarchy.Expr) Expr {
	x, _ := e.(Expr)
	return x
}
