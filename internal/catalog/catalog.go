// Package catalog holds the drink menu and its prices in minor currency units.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	defaultCurrency           = "INR"
	defaultExtraShotSurcharge = 20
)

// Drink is a menu entry priced per size.
type Drink struct {
	DisplayName string           `yaml:"display_name" json:"display_name"`
	Prices      map[string]int64 `yaml:"prices" json:"prices"`
}

// Catalog is a read-only menu.
type Catalog struct {
	Currency           string           `yaml:"currency"`
	ExtraShotSurcharge int64            `yaml:"extra_shot_surcharge"`
	Drinks             map[string]Drink `yaml:"drinks"`
}

// Default returns the built-in menu.
func Default() *Catalog {
	return &Catalog{
		Currency:           defaultCurrency,
		ExtraShotSurcharge: defaultExtraShotSurcharge,
		Drinks: map[string]Drink{
			"espresso":   {DisplayName: "Espresso", Prices: map[string]int64{"small": 80, "medium": 100, "large": 120}},
			"latte":      {DisplayName: "Latte", Prices: map[string]int64{"small": 120, "medium": 150, "large": 180}},
			"cappuccino": {DisplayName: "Cappuccino", Prices: map[string]int64{"small": 130, "medium": 160, "large": 190}},
			"mocha":      {DisplayName: "Mocha", Prices: map[string]int64{"small": 140, "medium": 170, "large": 200}},
		},
	}
}

// LoadFile reads a YAML menu from path. Missing currency and surcharge fall
// back to the built-in values.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML menu document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	if c.ExtraShotSurcharge == 0 {
		c.ExtraShotSurcharge = defaultExtraShotSurcharge
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Drinks) == 0 {
		return fmt.Errorf("menu has no drinks")
	}
	if c.ExtraShotSurcharge < 0 {
		return fmt.Errorf("extra shot surcharge must not be negative")
	}
	for key, d := range c.Drinks {
		if len(d.Prices) == 0 {
			return fmt.Errorf("drink %q has no prices", key)
		}
		for size, price := range d.Prices {
			if price < 0 {
				return fmt.Errorf("drink %q size %q has negative price", key, size)
			}
		}
	}
	return nil
}

// HasDrink reports whether drink is on the menu.
func (c *Catalog) HasDrink(drink string) bool {
	_, ok := c.Drinks[drink]
	return ok
}

// Lookup returns the unit price of drink in size.
func (c *Catalog) Lookup(drink, size string) (int64, bool) {
	d, ok := c.Drinks[drink]
	if !ok {
		return 0, false
	}
	price, ok := d.Prices[size]
	return price, ok
}

// DisplayName returns the human name of drink, or the key itself.
func (c *Catalog) DisplayName(drink string) string {
	if d, ok := c.Drinks[drink]; ok && d.DisplayName != "" {
		return d.DisplayName
	}
	return drink
}

// Keys lists drink keys in lexical order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Drinks))
	for k := range c.Drinks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
