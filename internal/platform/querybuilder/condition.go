package querybuilder

// Condition is one predicate of a WHERE clause.
type Condition interface {
	render(w *writer)
}

type comparison struct {
	column string
	op     string
	value  any
}

func (c comparison) render(w *writer) {
	w.write(c.column, " ", c.op, " ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition {
	return comparison{column: column, op: "=", value: value}
}

func Gte(column string, value any) Condition {
	return comparison{column: column, op: ">=", value: value}
}

func Gt(column string, value any) Condition {
	return comparison{column: column, op: ">", value: value}
}

func Lt(column string, value any) Condition {
	return comparison{column: column, op: "<", value: value}
}

type inList struct {
	column string
	values []any
}

// In matches column against values. An empty list matches nothing.
func In(column string, values []any) Condition {
	return inList{column: column, values: values}
}

// InStrings is In for string ids.
func InStrings(column string, values []string) Condition {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return inList{column: column, values: out}
}

func (c inList) render(w *writer) {
	if len(c.values) == 0 {
		w.write("1=0")
		return
	}
	w.write(c.column, " IN (")
	for i, v := range c.values {
		if i > 0 {
			w.write(", ")
		}
		w.bind(v)
	}
	w.write(")")
}

type nullCheck struct {
	column string
	not    bool
}

func IsNull(column string) Condition {
	return nullCheck{column: column}
}

func IsNotNull(column string) Condition {
	return nullCheck{column: column, not: true}
}

func (c nullCheck) render(w *writer) {
	if c.not {
		w.write(c.column, " IS NOT NULL")
		return
	}
	w.write(c.column, " IS NULL")
}

type rawExpr struct {
	expr string
	args []any
}

// Expr is a raw predicate with '?' placeholders.
func Expr(expr string, args ...any) Condition {
	return rawExpr{expr: expr, args: args}
}

func (c rawExpr) render(w *writer) {
	w.expand(c.expr, c.args)
}
