package forecast

import (
	"context"
	"errors"
	"testing"

	domfc "github.com/kailas-cloud/retaildex/internal/domain/forecast"
)

// --- Mocks ---

type mockSource struct {
	points []domfc.Point
	err    error
}

func (m *mockSource) ListForecasts(_ context.Context) ([]domfc.Point, error) {
	return m.points, m.err
}

func units(n int) *int { return &n }

func samplePoints() []domfc.Point {
	return []domfc.Point{
		{ProductID: "p1", Week: "1", UnitsSold: units(10), UnitsOnHand: units(50), Status: domfc.StatusActuals},
		{ProductID: "p2", Week: "1", UnitsSold: units(3), UnitsOnHand: units(9), Status: domfc.StatusActuals},
		{ProductID: "p1", Week: "2", UnitsSold: units(12), UnitsOnHand: units(38), Status: domfc.StatusActuals},
		{ProductID: "p1", Week: "3", UnitsSold: units(15), UnitsOnHand: nil, Status: domfc.StatusForecast, OutOfStock: true},
	}
}

// --- Tests ---

func TestList(t *testing.T) {
	svc := New(&mockSource{points: samplePoints()})

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("expected 4 points, got %d", len(got))
	}
}

func TestList_SourceError(t *testing.T) {
	cause := errors.New("file not found")
	svc := New(&mockSource{err: cause})

	if _, err := svc.List(context.Background()); !errors.Is(err, cause) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestForProduct_FiltersInOrder(t *testing.T) {
	svc := New(&mockSource{points: samplePoints()})

	got, err := svc.ForProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	for i, week := range []string{"1", "2", "3"} {
		if got[i].Week != week {
			t.Errorf("point %d: week %q, want %q", i, got[i].Week, week)
		}
	}
}

func TestForProduct_UnknownIsEmpty(t *testing.T) {
	svc := New(&mockSource{points: samplePoints()})

	got, err := svc.ForProduct(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestSeries_SplitsActualsAndForecast(t *testing.T) {
	svc := New(&mockSource{points: samplePoints()})

	s, err := svc.Series(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Weeks) != 3 || s.Weeks[2] != "Week 3" {
		t.Fatalf("unexpected weeks: %v", s.Weeks)
	}
	if s.Actuals.UnitsSold[1] == nil || *s.Actuals.UnitsSold[1] != 12 {
		t.Errorf("expected actual week 2 sold 12, got %v", s.Actuals.UnitsSold[1])
	}
	if s.Actuals.UnitsSold[2] != nil {
		t.Error("forecast week must be null in actuals line")
	}
	if s.Forecast.UnitsSold[0] != nil {
		t.Error("actual week must be null in forecast line")
	}
	if s.Forecast.UnitsSold[2] == nil || *s.Forecast.UnitsSold[2] != 15 {
		t.Errorf("expected forecast week 3 sold 15, got %v", s.Forecast.UnitsSold[2])
	}
	if !s.OutOfStock[2] || s.OutOfStock[0] {
		t.Errorf("unexpected out of stock flags: %v", s.OutOfStock)
	}
}
