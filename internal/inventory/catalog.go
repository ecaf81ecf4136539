package inventory

import (
	"strings"

	"github.com/samber/lo"
)

// Item is a parts catalog entry.
type Item struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Catalog is a read-only parts catalog. The lifecycle engine never
// touches it; callers look parts up here and pass the copied values
// along when attaching them to a job card.
type Catalog interface {
	List(query string) []Item
	ByCode(code string) (*Item, bool)
}

var defaultItems = []Item{
	{Code: "ENG001", Name: "Engine Oil 5W-30", Price: 450, Stock: 50},
	{Code: "FIL001", Name: "Oil Filter", Price: 250, Stock: 30},
	{Code: "BRA001", Name: "Brake Pad Set", Price: 1200, Stock: 20},
	{Code: "AIR001", Name: "Air Filter", Price: 350, Stock: 40},
	{Code: "SPK001", Name: "Spark Plug", Price: 150, Stock: 100},
	{Code: "BAT001", Name: "Battery 12V", Price: 3500, Stock: 15},
	{Code: "TYR001", Name: "Tyre 17 inch", Price: 4500, Stock: 10},
	{Code: "CLT001", Name: "Coolant 5L", Price: 600, Stock: 25},
	{Code: "BEL001", Name: "Timing Belt", Price: 1800, Stock: 12},
	{Code: "LMP001", Name: "Headlight Bulb", Price: 400, Stock: 35},
	{Code: "WIN001", Name: "Windshield Wiper", Price: 500, Stock: 28},
	{Code: "FUL001", Name: "Fuel Filter", Price: 300, Stock: 45},
	{Code: "RAD001", Name: "Radiator Cap", Price: 200, Stock: 50},
	{Code: "HOS001", Name: "Radiator Hose", Price: 800, Stock: 18},
	{Code: "GAS001", Name: "Gasket Set", Price: 1200, Stock: 22},
}

// StaticCatalog serves a fixed in-memory parts list.
type StaticCatalog struct {
	items []Item
}

// NewStaticCatalog returns a catalog seeded with the workshop's stock
// parts list.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{items: defaultItems}
}

// List returns all items, or those whose code contains the query
// case-insensitively.
func (c *StaticCatalog) List(query string) []Item {
	if query == "" {
		return append([]Item(nil), c.items...)
	}

	q := strings.ToLower(query)
	return lo.Filter(c.items, func(item Item, _ int) bool {
		return strings.Contains(strings.ToLower(item.Code), q)
	})
}

// ByCode returns the item with the given code, case-insensitively.
func (c *StaticCatalog) ByCode(code string) (*Item, bool) {
	item, ok := lo.Find(c.items, func(item Item) bool {
		return strings.EqualFold(item.Code, code)
	})
	if !ok {
		return nil, false
	}
	return &item, true
}
