// Package paging parses list query parameters (page, limit, sort, search,
// status, category) and turns them into Mongo find options and the
// pagination block returned with list responses.
package paging

import (
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxSearchLen bounds the search term, in runes, that is compiled into
	// a regex.
	MaxSearchLen = 100
	// MaxPage keeps (Page-1)*Limit within int64.
	MaxPage = math.MaxInt64 / MaxLimit
)

// Sorts whitelists the sort keys a list accepts, mapping the public key
// (as sent in ?sort=) to the stored field.
type Sorts map[string]string

// Params is a parsed list request.
type Params struct {
	Page     int64
	Limit    int64
	Search   string
	Status   string
	Category string
	Sort     bson.D
}

// Parse reads page, limit, sort, search (or q), status and category from r.
// A sort key prefixed with "-" is descending. Keys missing from sorts fall
// back to def.
func Parse(r *http.Request, sorts Sorts, def bson.D) Params {
	p := Params{
		Page:     positive(strings.TrimSpace(query.Get(r, "page")), 1),
		Limit:    positive(strings.TrimSpace(query.Get(r, "limit")), DefaultLimit),
		Search:   query.Get(r, "search"),
		Status:   strings.ToLower(strings.TrimSpace(query.Get(r, "status"))),
		Category: strings.TrimSpace(query.Get(r, "category")),
		Sort:     def,
	}
	if p.Search == "" {
		p.Search = query.Get(r, "q")
	}
	p.Search = truncateRunes(strings.ToValidUTF8(p.Search, ""), MaxSearchLen)
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if s := ParseSort(query.Get(r, "sort"), sorts); s != nil {
		p.Sort = s
	}
	return p
}

// ParseSort resolves a "field" or "-field" expression against sorts.
// It returns nil for unknown fields. _id is appended as a tiebreaker.
func ParseSort(expr string, sorts Sorts) bson.D {
	expr = strings.TrimSpace(expr)
	dir := 1
	if strings.HasPrefix(expr, "-") {
		dir = -1
		expr = expr[1:]
	}
	field, ok := sorts[expr]
	if !ok || expr == "" {
		return nil
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

func truncateRunes(s string, n int) string {
	i := 0
	for at := range s {
		if i == n {
			return s[:at]
		}
		i++
	}
	return s
}

func positive(s string, def int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Skip is the number of documents before the current page.
func (p Params) Skip() int64 { return (p.Page - 1) * p.Limit }

// FindOptions applies sort, skip and limit.
func (p Params) FindOptions() *options.FindOptions {
	return options.Find().SetSort(p.Sort).SetSkip(p.Skip()).SetLimit(p.Limit)
}

// Filter builds the base filter: a case-insensitive regex over
// searchFields, plus exact status and category matches. Callers may add
// further conditions to the returned map.
func (p Params) Filter(searchFields ...string) bson.M {
	f := bson.M{}
	if p.Search != "" && len(searchFields) > 0 {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(p.Search), Options: "i"}
		or := make(bson.A, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.M{field: re})
		}
		f["$or"] = or
	}
	if p.Status != "" && p.Status != "all" {
		f["status"] = p.Status
	}
	if p.Category != "" && !strings.EqualFold(p.Category, "all") {
		f["category"] = p.Category
	}
	return f
}

// Pagination is the block returned alongside list data.
type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination computes the pagination block for p given the total count.
func NewPagination(p Params, total int64) Pagination {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}
