package repository

import (
	"fmt"
	"strings"

	"github.com/almast/trendmart/internal/catalog/domain"
)

// cond is one predicate of a listing query: an SQL fragment with "?"
// placeholders and its bound parameters. Conditions are collected in
// order and rendered into a single parameterized statement; caller
// input never reaches the statement text.
type cond struct {
	expr string
	args []interface{}
}

type queryBuilder struct {
	conds []cond
}

func (b *queryBuilder) add(expr string, args ...interface{}) {
	b.conds = append(b.conds, cond{expr: expr, args: args})
}

// listConds translates a filter set to predicates. The category filter
// is intentionally absent: it is applied in memory after the per-product
// category fetch, which the read usecase already pays for.
func listConds(f domain.ListFilter) *queryBuilder {
	b := &queryBuilder{}

	// Public listings only ever show purchasable products.
	if !f.Admin {
		b.add("in_stock = TRUE")
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		if f.Admin {
			b.add("(name ILIKE ? OR sku ILIKE ?)", pattern, pattern)
		} else {
			b.add("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
		}
	}

	// Flag filters constrain only when explicitly requested.
	if f.Trending == "true" {
		b.add("trending = TRUE")
	}
	if f.BestSeller == "true" {
		b.add("best_seller = TRUE")
	}
	if f.NewArrival == "true" {
		b.add("new_arrival = TRUE")
	}

	if f.Admin {
		switch f.Status {
		case domain.StatusActive:
			b.add("in_stock = TRUE AND quantity > 0")
		case domain.StatusOutOfStock:
			b.add("quantity <= 0")
		case domain.StatusDraft:
			b.add("in_stock = FALSE")
		}
	}

	return b
}

// render joins the predicates into a WHERE clause, renumbering "?"
// placeholders to postgres $n parameters starting at next.
func (b *queryBuilder) render(next int) (string, []interface{}, int) {
	if len(b.conds) == 0 {
		return "", nil, next
	}

	var (
		parts []string
		args  []interface{}
	)
	for _, c := range b.conds {
		expr := c.expr
		for range c.args {
			expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", next), 1)
			next++
		}
		parts = append(parts, expr)
		args = append(args, c.args...)
	}

	return " WHERE " + strings.Join(parts, " AND "), args, next
}

const productColumns = "id, name, description, sku, price, old_price, quantity, in_stock, low_stock_threshold, trending, best_seller, new_arrival, created_at, updated_at"

// buildListQuery renders the full listing statement. Newest products
// come first; rows sharing a creation time keep insertion order.
func buildListQuery(f domain.ListFilter) (string, []interface{}) {
	where, args, next := listConds(f).render(1)

	query := "SELECT " + productColumns + " FROM products" + where +
		" ORDER BY created_at DESC, id ASC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", next, next+1)
	args = append(args, f.Limit, f.Offset)

	return query, args
}

// buildCountQuery renders the matching-row count for the same filters,
// without pagination.
func buildCountQuery(f domain.ListFilter) (string, []interface{}) {
	where, args, _ := listConds(f).render(1)
	return "SELECT COUNT(*) FROM products" + where, args
}
