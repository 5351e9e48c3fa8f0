package repository

import (
	"fmt"
	"strings"
)

const defaultPageSize = 10

// ListParams carries 1-indexed pagination plus optional sorting for list
// operations. Zero values select each operation's defaults.
type ListParams struct {
	Page           int
	PageSize       int
	OrderBy        string
	OrderDirection string
}

// normalizePage clamps pagination the same way for every manager:
// page < 1 becomes 1, pageSize < 1 becomes 10.
func normalizePage(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// orderClause builds an ORDER BY fragment from caller-supplied column and
// direction. Columns outside the allow-list fall back to the default column,
// direction is case-insensitive and falls back to the operation default.
func orderClause(orderBy, direction, defaultColumn, defaultDirection string, allowed map[string]bool) string {
	column := defaultColumn
	if allowed[orderBy] {
		column = orderBy
	}
	dir := strings.ToLower(direction)
	if dir != "asc" && dir != "desc" {
		dir = defaultDirection
	}
	return fmt.Sprintf("%s %s", column, strings.ToUpper(dir))
}
