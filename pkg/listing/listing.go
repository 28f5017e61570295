// Package listing translates API query strings into GORM query clauses.
// Each resource declares a static allow-list of filterable, sortable and
// selectable fields; anything outside the allow-list is silently ignored so
// a hostile query string can never reach SQL.
package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPage is used when the page parameter is absent or invalid.
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is absent or invalid.
	DefaultLimit = 100
)

// reserved query keys that are never treated as filters.
var reservedKeys = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

// comparison operators accepted inside bracket suffixes, e.g. price[gte]=500.
var operators = map[string]string{
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

// Resource declares which API field names a collection endpoint exposes and
// the database columns they map to. Keys are the JSON names clients use;
// values are column names.
type Resource struct {
	Filterable  map[string]string
	Sortable    map[string]string
	Selectable  map[string]string
	DefaultSort string
}

// Page describes the resolved pagination window of a request.
type Page struct {
	Number int
	Limit  int
	Offset int
}

// Apply layers the filter, sort, projection and pagination clauses derived
// from the query string onto tx and returns the resolved page window.
func Apply(tx *gorm.DB, query url.Values, res Resource) (*gorm.DB, Page) {
	tx = ApplyFilters(tx, query, res)
	tx = ApplySort(tx, query.Get("sort"), res)
	tx = ApplyFields(tx, query.Get("fields"), res)

	page := ResolvePage(query)
	tx = tx.Offset(page.Offset).Limit(page.Limit)
	return tx, page
}

// ApplyFilters adds WHERE clauses for every allow-listed key in the query
// string. A bare key means equality; a bracket suffix selects a comparison
// operator. Unknown keys and unknown operators are ignored.
func ApplyFilters(tx *gorm.DB, query url.Values, res Resource) *gorm.DB {
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		if _, ok := reservedKeys[key]; ok {
			continue
		}

		field, op := splitOperator(key)
		column, ok := res.Filterable[field]
		if !ok {
			continue
		}

		value := values[0]
		if op == "" {
			tx = tx.Where(fmt.Sprintf("%s = ?", column), value)
			continue
		}
		sqlOp, ok := operators[op]
		if !ok {
			continue
		}
		tx = tx.Where(fmt.Sprintf("%s %s ?", column, sqlOp), value)
	}
	return tx
}

// ApplySort adds ORDER BY clauses from a comma-separated sort expression.
// A leading '-' means descending. Fields outside the allow-list are
// dropped; when nothing survives, the resource default sort applies.
func ApplySort(tx *gorm.DB, sortExpr string, res Resource) *gorm.DB {
	applied := false
	for _, raw := range strings.Split(sortExpr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		desc := strings.HasPrefix(raw, "-")
		field := strings.TrimPrefix(raw, "-")
		column, ok := res.Sortable[field]
		if !ok {
			continue
		}
		if desc {
			column += " DESC"
		}
		tx = tx.Order(column)
		applied = true
	}
	if !applied && res.DefaultSort != "" {
		tx = tx.Order(res.DefaultSort)
	}
	return tx
}

// ApplyFields narrows the SELECT list to the requested comma-separated
// fields. Unknown fields are dropped; an empty survivor set keeps the full
// projection. The id column always survives so records stay addressable
// and association preloads keep their parent keys.
func ApplyFields(tx *gorm.DB, fieldsExpr string, res Resource) *gorm.DB {
	if fieldsExpr == "" {
		return tx
	}
	var columns []string
	for _, raw := range strings.Split(fieldsExpr, ",") {
		raw = strings.TrimSpace(raw)
		column, ok := res.Selectable[raw]
		if !ok {
			continue
		}
		columns = append(columns, column)
	}
	if len(columns) == 0 {
		return tx
	}
	hasID := false
	for _, column := range columns {
		if column == "id" {
			hasID = true
			break
		}
	}
	if !hasID {
		columns = append([]string{"id"}, columns...)
	}
	return tx.Select(columns)
}

// ResolvePage parses page and limit with numeric-or-default fallback.
func ResolvePage(query url.Values) Page {
	page := positiveIntOrDefault(query.Get("page"), DefaultPage)
	limit := positiveIntOrDefault(query.Get("limit"), DefaultLimit)
	return Page{
		Number: page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func positiveIntOrDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// splitOperator separates "price[gte]" into ("price", "gte"). A key
// without brackets returns an empty operator.
func splitOperator(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}
