package inventory

import (
	"fmt"
	"strings"
	"time"

	"printshop/m/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// sortColumns whitelists the columns accepted by the sort parameter.
var sortColumns = map[string]bool{
	"id":               true,
	"name":             true,
	"quantity":         true,
	"measurement_unit": true,
	"provider":         true,
	"created_at":       true,
	"updated_at":       true,
}

type PageOpts struct {
	Page  int
	Limit int
}

func (p PageOpts) offset() int {
	return (p.Page - 1) * p.Limit
}

type SortOpts struct {
	Sort  string
	Order string
}

// Filter narrows the item listing. Zero values disable a criterion.
type Filter struct {
	Provider        string
	MeasurementUnit string
	MinQuantity     *float64
	MaxQuantity     *float64
	DateFrom        string
	DateTo          string
	Search          string
}

type ListQuery struct {
	Filter Filter
	Sort   SortOpts
	Page   PageOpts
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func newPagination(p PageOpts, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// Normalize applies defaults and rejects values that cannot be turned into SQL.
func (q *ListQuery) Normalize() error {
	if q.Page.Page < 1 {
		q.Page.Page = DefaultPage
	}
	if q.Page.Limit < 1 {
		q.Page.Limit = DefaultLimit
	}
	if q.Page.Limit > MaxLimit {
		q.Page.Limit = MaxLimit
	}

	q.Sort.Sort = strings.ToLower(strings.TrimSpace(q.Sort.Sort))
	if q.Sort.Sort == "" {
		q.Sort.Sort = "created_at"
	}
	if !sortColumns[q.Sort.Sort] {
		return apperr.Invalid("sort must be one of name, quantity, measurement_unit, provider, created_at, updated_at")
	}

	q.Sort.Order = strings.ToLower(strings.TrimSpace(q.Sort.Order))
	if q.Sort.Order == "" {
		q.Sort.Order = "desc"
	}
	if q.Sort.Order != "asc" && q.Sort.Order != "desc" {
		return apperr.Invalid("order must be asc or desc")
	}

	for _, d := range []struct{ name, value string }{
		{"date_from", q.Filter.DateFrom},
		{"date_to", q.Filter.DateTo},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d.value); err != nil {
			return apperr.Invalid("%s must be in YYYY-MM-DD format", d.name)
		}
	}
	return nil
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// build returns the page query, the count query, and the parameters. The
// last two parameters are LIMIT and OFFSET and only apply to the page query.
func (q *ListQuery) build() (string, string, []any) {
	query := `SELECT ` + itemColumns + ` FROM inventory`
	countQuery := `SELECT COUNT(*) FROM inventory`

	var (
		clauses []string
		params  []any
	)
	add := func(clause string, v any) {
		params = append(params, v)
		clauses = append(clauses, fmt.Sprintf(clause, len(params)))
	}

	f := q.Filter
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		params = append(params, like)
		n := len(params)
		clauses = append(clauses, fmt.Sprintf(`(LOWER(name) LIKE $%d ESCAPE '\' OR LOWER(COALESCE(provider, '')) LIKE $%d ESCAPE '\')`, n, n))
	}
	if f.Provider != "" {
		add("LOWER(provider) = LOWER($%d)", f.Provider)
	}
	if f.MeasurementUnit != "" {
		add("LOWER(measurement_unit) = LOWER($%d)", f.MeasurementUnit)
	}
	if f.MinQuantity != nil {
		add("quantity >= $%d", *f.MinQuantity)
	}
	if f.MaxQuantity != nil {
		add("quantity <= $%d", *f.MaxQuantity)
	}
	if f.DateFrom != "" {
		add("DATE(created_at) >= DATE($%d)", f.DateFrom)
	}
	if f.DateTo != "" {
		add("DATE(created_at) <= DATE($%d)", f.DateTo)
	}

	if len(clauses) > 0 {
		where := " WHERE " + strings.Join(clauses, " AND ")
		query += where
		countQuery += where
	}

	// Sort and Order are whitelisted by Normalize.
	query += fmt.Sprintf(" ORDER BY %s %s, id %s", q.Sort.Sort, strings.ToUpper(q.Sort.Order), strings.ToUpper(q.Sort.Order))
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(params)+1, len(params)+2)
	params = append(params, q.Page.Limit, q.Page.offset())

	return query, countQuery, params
}
