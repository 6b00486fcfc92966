package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// InvalidCriteriaError reports the first search-criteria rule a request
// violated. It is client-caused and never retried.
type InvalidCriteriaError struct {
	Field  string
	Reason string
}

func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("invalid search criteria: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &InvalidCriteriaError{Field: field, Reason: reason}
}

// SearchDefaults are applied to absent raw fields before validation.
// Passed in explicitly so tests can exercise non-default configurations.
type SearchDefaults struct {
	SortBy        string
	SortDirection string
	PageSize      int
	MaxPageSize   int
}

func DefaultSearchDefaults() SearchDefaults {
	return SearchDefaults{SortBy: "price", SortDirection: "ASC", PageSize: 10, MaxPageSize: 100}
}

// RawSearchCriteria is the loosely-typed shape a search request arrives in.
// Nil / empty means "no constraint" for every field.
type RawSearchCriteria struct {
	MinPrice      *float64
	MaxPrice      *float64
	MinGuests     *int
	BedTypes      []BedType
	Amenities     []string
	Views         []RoomView
	CheckIn       *time.Time
	CheckOut      *time.Time
	SortBy        string
	SortDirection string
	Page          *int
	Size          *int
}

// SearchCriteria is the validated, canonical form. Immutable once built;
// safe to share across concurrent searches.
type SearchCriteria struct {
	MinPrice      *float64
	MaxPrice      *float64
	MinGuests     *int
	BedTypes      []BedType
	Amenities     []string // ALL must be present on a room
	Views         []RoomView
	CheckIn       *time.Time
	CheckOut      *time.Time
	SortBy        string
	SortDirection string // "ASC" or "DESC"
	Page          int
	Size          int
}

// NewSearchCriteria applies defaults, then validates fail-fast: the first
// violated rule is reported and the rest are not checked.
func NewSearchCriteria(raw RawSearchCriteria, d SearchDefaults) (SearchCriteria, error) {
	c := SearchCriteria{
		MinPrice:      raw.MinPrice,
		MaxPrice:      raw.MaxPrice,
		MinGuests:     raw.MinGuests,
		BedTypes:      append([]BedType(nil), raw.BedTypes...),
		Amenities:     append([]string(nil), raw.Amenities...),
		Views:         append([]RoomView(nil), raw.Views...),
		CheckIn:       copyDate(raw.CheckIn),
		CheckOut:      copyDate(raw.CheckOut),
		SortBy:        strings.ToLower(strings.TrimSpace(raw.SortBy)),
		SortDirection: strings.ToUpper(strings.TrimSpace(raw.SortDirection)),
		Page:          0,
		Size:          d.PageSize,
	}
	if c.SortBy == "" {
		c.SortBy = d.SortBy
	}
	if c.SortDirection == "" {
		c.SortDirection = strings.ToUpper(d.SortDirection)
	}
	if raw.Page != nil {
		c.Page = *raw.Page
	}
	if raw.Size != nil {
		c.Size = *raw.Size
	}

	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return SearchCriteria{}, invalid("minPrice", "must be less than or equal to maxPrice")
	}
	if c.MinPrice != nil && *c.MinPrice < 0 {
		return SearchCriteria{}, invalid("minPrice", "must be non-negative")
	}
	if c.MaxPrice != nil && *c.MaxPrice < 0 {
		return SearchCriteria{}, invalid("maxPrice", "must be non-negative")
	}
	if (c.CheckIn == nil) != (c.CheckOut == nil) {
		return SearchCriteria{}, invalid("checkIn", "checkIn and checkOut must be supplied together")
	}
	if c.CheckIn != nil && !c.CheckIn.Before(*c.CheckOut) {
		return SearchCriteria{}, invalid("checkIn", "must be before checkOut")
	}
	if c.Page < 0 {
		return SearchCriteria{}, invalid("page", "must be non-negative")
	}
	if c.Size < 1 {
		return SearchCriteria{}, invalid("size", "must be at least 1")
	}
	if c.Size > d.MaxPageSize {
		return SearchCriteria{}, invalid("size", fmt.Sprintf("must not exceed %d", d.MaxPageSize))
	}
	if c.SortDirection != "ASC" && c.SortDirection != "DESC" {
		return SearchCriteria{}, invalid("sortDirection", "must be either ASC or DESC")
	}
	if c.MinGuests != nil && *c.MinGuests < 1 {
		return SearchCriteria{}, invalid("minGuests", "must be at least 1")
	}
	return c, nil
}

// CacheKey is a canonical rendering of the criteria, stable under set
// reordering, used to key cached search results.
func (c SearchCriteria) CacheKey() string {
	var b strings.Builder
	b.WriteString("search:")
	if c.MinPrice != nil {
		fmt.Fprintf(&b, "pmin=%g;", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		fmt.Fprintf(&b, "pmax=%g;", *c.MaxPrice)
	}
	if c.MinGuests != nil {
		fmt.Fprintf(&b, "g=%d;", *c.MinGuests)
	}
	writeSet(&b, "bt", bedTypeStrings(c.BedTypes))
	writeSet(&b, "am", append([]string(nil), c.Amenities...))
	writeSet(&b, "vw", viewStrings(c.Views))
	if c.CheckIn != nil && c.CheckOut != nil {
		fmt.Fprintf(&b, "in=%s;out=%s;", c.CheckIn.Format("2006-01-02"), c.CheckOut.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "sort=%s.%s;p=%d;s=%d", c.SortBy, c.SortDirection, c.Page, c.Size)
	return b.String()
}

func writeSet(b *strings.Builder, tag string, vals []string) {
	if len(vals) == 0 {
		return
	}
	sort.Strings(vals)
	fmt.Fprintf(b, "%s=%s;", tag, strings.Join(vals, ","))
}

func bedTypeStrings(bs []BedType) []string {
	out := make([]string, len(bs))
	for i, v := range bs {
		out[i] = string(v)
	}
	return out
}

func viewStrings(vs []RoomView) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func copyDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
