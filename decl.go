package spanav

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Record is one route of a declarative table.
//
//	[[routes]]
//	path = "/expenses"
//	name = "Expenses"
//	component = "expenses"
//	lazy = true
type Record struct {
	Path      string `toml:"path"`
	Name      string `toml:"name"`
	Title     string `toml:"title"`
	Component string `toml:"component"`
	Lazy      bool   `toml:"lazy"`
}

// DecodeTable parses a TOML document with a [[routes]] array and builds the
// table with components from reg.
func DecodeTable(data []byte, reg *Registry) (*Table, error) {
	var doc struct {
		Routes []Record `toml:"routes"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse route table: %w", err)
	}
	return BuildTable(doc.Routes, reg)
}

// BuildTable builds a table from records in order.
func BuildTable(records []Record, reg *Registry) (*Table, error) {
	routes := make([]*Route, 0, len(records))
	for _, rec := range records {
		r, err := reg.route(rec)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return NewTable(routes...)
}
