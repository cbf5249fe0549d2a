package query

import (
	"fmt"
	"math"
	"strings"

	"restaurantapi/internal/jsonpath"
)

const PageSize = 30

// MaxPage is the last page whose offset fits in an int. Every page past it
// is past the end of any table, so it is read as MaxPage.
const MaxPage = math.MaxInt/PageSize + 1

// RestaurantColumns is the projection shared by every listing read.
const RestaurantColumns = "id, location_id, name, country, category, rating, image_url, review_json, detail_json, created_at, updated_at"

var (
	// RegionPath locates the region tag inside review_json.
	RegionPath = jsonpath.MustParse("parentGeoName")

	Country  Column = Col("country")
	Category Column = Col("category")
	Name     Column = Col("name")
	Region   Column = JSONText{Column: "review_json", Path: RegionPath}
)

// Selection is the client's current filter state. Empty strings mean "no
// filter on that dimension".
type Selection struct {
	Country   string
	Region    string
	Category  string
	Name      string
	MinRating float64
	Page      int
}

type Statement struct {
	SQL  string
	Args []any
}

// NormalizePage treats pages below 1 as the first page and clamps pages
// above MaxPage.
func NormalizePage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

func Offset(page int) int {
	return (NormalizePage(page) - 1) * PageSize
}

// Compose renders one page of restaurants for sel, highest rated first.
// Unrated rows sort after every rated row.
func Compose(sel Selection) Statement {
	b := NewBuilder(1)
	b.Where(fmt.Sprintf("%s = %s", Country.SQL(), b.Param(sel.Country)))
	b.Where(fmt.Sprintf("COALESCE(rating, 0) >= %s", b.Param(sel.MinRating)))
	b.Add(
		Filter{Column: Region, Op: Eq, Value: sel.Region},
		Filter{Column: Category, Op: Eq, Value: sel.Category},
		Filter{Column: Name, Op: Contains, Value: sel.Name},
	)

	limit := b.Param(PageSize)
	offset := b.Param(Offset(sel.Page))

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(RestaurantColumns)
	sb.WriteString(" FROM restaurants ")
	sb.WriteString(b.WhereClause())
	sb.WriteString(" ORDER BY rating DESC NULLS LAST, id ASC")
	fmt.Fprintf(&sb, " LIMIT %s OFFSET %s", limit, offset)

	return Statement{SQL: sb.String(), Args: b.Args()}
}

func CountriesStatement() Statement {
	return distinct(Country, NewBuilder(1))
}

func RegionsStatement(country string) Statement {
	b := NewBuilder(1)
	b.Where(fmt.Sprintf("%s = %s", Country.SQL(), b.Param(country)))
	return distinct(Region, b)
}

// CategoriesStatement scopes categories to region when set, and to country
// when set. Either may be empty.
func CategoriesStatement(country, region string) Statement {
	b := NewBuilder(1).Add(
		Filter{Column: Country, Op: Eq, Value: country},
		Filter{Column: Region, Op: Eq, Value: region},
	)
	return distinct(Category, b)
}

func distinct(col Column, b *Builder) Statement {
	expr := col.SQL()
	b.Where(expr + " IS NOT NULL")
	sql := fmt.Sprintf("SELECT DISTINCT %s AS value FROM restaurants %s ORDER BY 1", expr, b.WhereClause())
	return Statement{SQL: sql, Args: b.Args()}
}
