// Package query implements the shared list pipeline: filter, search,
// sort, and paginate parameters parsed from the request and compiled
// into GORM scopes.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"noticeboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MaxLimit caps the page size regardless of what the client asks for.
const MaxLimit = 100

// Options configures parsing for one resource.
type Options struct {
	DefaultLimit int
	// SortFields maps the external sortBy value to a database column.
	// Only mapped values are accepted; anything else falls back to DefaultSort.
	SortFields  map[string]string
	DefaultSort string // column name, must appear as a value in SortFields
}

// Params holds the parsed list parameters for a request.
type Params struct {
	Page      int
	Limit     int
	SortBy    string // database column, already whitelisted
	SortOrder string // "asc" or "desc"
	Search    string
}

// Pagination is the list metadata returned alongside items.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// Parse extracts page/limit/sortBy/sortOrder/search from the request.
// Non-numeric page or limit, or limit <= 0, yields a validation error.
func Parse(c *fiber.Ctx, opts Options) (Params, error) {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Params{}, models.NewValidationError("Invalid page parameter")
		}
		page = n
	}

	limit := opts.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Params{}, models.NewValidationError("Invalid limit parameter")
		}
		limit = n
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy := opts.DefaultSort
	if raw := c.Query("sortBy"); raw != "" {
		if col, ok := opts.SortFields[raw]; ok {
			sortBy = col
		}
	}

	sortOrder := "desc"
	if raw := strings.ToLower(c.Query("sortOrder")); raw == "asc" {
		sortOrder = "asc"
	}

	return Params{
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Search:    strings.TrimSpace(c.Query("search")),
	}, nil
}

// Offset returns the 0-based row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NewPagination computes list metadata from a total row count.
func NewPagination(total int64, p Params) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}

// Search returns a scope matching the search term case-insensitively
// against any of the given columns. An empty term is a no-op.
func Search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		var (
			clauses []string
			args    []interface{}
		)
		// Explicit ESCAPE so the backslash escaping works on sqlite as
		// well as postgres.
		for _, col := range columns {
			clauses = append(clauses, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col))
			args = append(args, pattern)
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// Sort returns a scope ordering by the parsed sort column with a
// deterministic id tiebreaker.
func (p Params) Sort() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.SortBy != "" {
			db = db.Order(fmt.Sprintf("%s %s", p.SortBy, strings.ToUpper(p.SortOrder)))
		}
		return db.Order("id ASC")
	}
}

// Paginate returns a scope applying limit/offset for the current page.
func (p Params) Paginate() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit).Offset(p.Offset())
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
