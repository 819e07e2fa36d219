package forecast

import (
	"strconv"
	"strings"
)

// Status values for a forecast point.
const (
	StatusActuals  = "actuals"
	StatusForecast = "forecast"
)

// Point is one weekly sales record for a product, either observed or forecast.
type Point struct {
	ProductID   string `json:"product_id"`
	Week        string `json:"week"`
	UnitsSold   *int   `json:"units_sold"`
	UnitsOnHand *int   `json:"units_on_hand"`
	Status      string `json:"status,omitempty"`
	OutOfStock  bool   `json:"out_of_stock"`
}

// ParseUnits parses a unit count, returning nil for blank or non-numeric input.
func ParseUnits(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	// Warehouse exports occasionally carry "12.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// ParseOutOfStock reports whether the raw flag equals "true" (case-insensitive).
func ParseOutOfStock(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// Line is one plotted series. Values are nil where the point belongs to another status.
type Line struct {
	UnitsSold   []*int `json:"units_sold"`
	UnitsOnHand []*int `json:"units_on_hand"`
}

// Series is the chart payload for a single product.
type Series struct {
	ProductID  string   `json:"product_id"`
	Weeks      []string `json:"weeks"`
	Actuals    Line     `json:"actuals"`
	Forecast   Line     `json:"forecast"`
	OutOfStock []bool   `json:"out_of_stock"`
}

// BuildSeries aligns actuals and forecast lines on the points' week axis, in input order.
func BuildSeries(productID string, points []Point) Series {
	s := Series{
		ProductID:  productID,
		Weeks:      make([]string, len(points)),
		Actuals:    newLine(len(points)),
		Forecast:   newLine(len(points)),
		OutOfStock: make([]bool, len(points)),
	}
	for i, p := range points {
		s.Weeks[i] = "Week " + p.Week
		s.OutOfStock[i] = p.OutOfStock
		switch p.Status {
		case StatusActuals:
			s.Actuals.UnitsSold[i] = p.UnitsSold
			s.Actuals.UnitsOnHand[i] = p.UnitsOnHand
		case StatusForecast:
			s.Forecast.UnitsSold[i] = p.UnitsSold
			s.Forecast.UnitsOnHand[i] = p.UnitsOnHand
		}
	}
	return s
}

func newLine(n int) Line {
	return Line{UnitsSold: make([]*int, n), UnitsOnHand: make([]*int, n)}
}
