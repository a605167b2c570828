package model

import (
	"errors"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const tolerance = 0.001

func TestNewProductAndGetters(t *testing.T) {
	p := NewProduct("Laptop", 999.99, 10)
	if p.Name() != "Laptop" {
		t.Errorf("expected name Laptop, got %q", p.Name())
	}
	if math.Abs(p.Price()-999.99) > tolerance {
		t.Errorf("expected price 999.99, got %v", p.Price())
	}
	if p.Stock() != 10 {
		t.Errorf("expected stock 10, got %d", p.Stock())
	}
}

func TestNewProductStoresValuesVerbatim(t *testing.T) {
	p := NewProduct("", -5, -3)
	if p.Name() != "" || p.Price() != -5 || p.Stock() != -3 {
		t.Fatalf("unexpected product: %q %v %d", p.Name(), p.Price(), p.Stock())
	}
}

func TestReduceStock(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		want      bool
		wantStock int
	}{
		{"success", 5, true, 5},
		{"all units", 10, true, 0},
		{"single unit", 1, true, 9},
		{"negative quantity", -1, false, 10},
		{"zero quantity", 0, false, 10},
		{"insufficient stock", 15, false, 10},
		{"one over stock", 11, false, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProduct("Laptop", 999.99, 10)
			if got := p.ReduceStock(tt.quantity); got != tt.want {
				t.Errorf("ReduceStock(%d) = %v, want %v", tt.quantity, got, tt.want)
			}
			if p.Stock() != tt.wantStock {
				t.Errorf("expected stock %d, got %d", tt.wantStock, p.Stock())
			}
		})
	}
}

func TestReduceStockNeverGoesNegative(t *testing.T) {
	p := NewProduct("Laptop", 999.99, 3)
	for q := -2; q <= 5; q++ {
		before := p.Stock()
		ok := p.ReduceStock(q)
		switch {
		case q <= 0 || q > before:
			if ok || p.Stock() != before {
				t.Fatalf("quantity %d: expected rejection with stock %d, got %v and %d", q, before, ok, p.Stock())
			}
		default:
			if !ok || p.Stock() != before-q {
				t.Fatalf("quantity %d: expected stock %d, got %v and %d", q, before-q, ok, p.Stock())
			}
		}
		if p.Stock() < 0 {
			t.Fatalf("stock went negative: %d", p.Stock())
		}
	}
}

func TestReduceStockRepeatedUntilEmpty(t *testing.T) {
	p := NewProduct("Mouse", 25, 4)
	for i := 0; i < 4; i++ {
		if !p.ReduceStock(1) {
			t.Fatalf("reduction %d failed", i)
		}
	}
	if p.ReduceStock(1) {
		t.Fatal("expected reduction on empty stock to fail")
	}
	if p.Stock() != 0 {
		t.Fatalf("expected stock 0, got %d", p.Stock())
	}
}

func TestCalculateDiscount(t *testing.T) {
	tests := []struct {
		percentage float64
		want       float64
	}{
		{10, 900},
		{0, 1000},
		{100, 0},
		{50, 500},
		{12.5, 875},
		{33.3, 667},
	}

	for _, tt := range tests {
		p := NewProduct("Laptop", 1000.0, 10)
		got, err := p.CalculateDiscount(tt.percentage)
		if err != nil {
			t.Fatalf("CalculateDiscount(%v) returned error: %v", tt.percentage, err)
		}
		if math.Abs(got-tt.want) > tolerance {
			t.Errorf("CalculateDiscount(%v) = %v, want %v", tt.percentage, got, tt.want)
		}
		if p.Price() != 1000.0 {
			t.Errorf("price mutated to %v", p.Price())
		}
	}
}

func TestCalculateDiscountMatchesScaledPrice(t *testing.T) {
	p := NewProduct("Laptop", 999.99, 10)
	for pct := 0.0; pct <= 100; pct += 7.5 {
		got, err := p.CalculateDiscount(pct)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", pct, err)
		}
		want := p.Price() * (1 - pct/100)
		if math.Abs(got-want) > tolerance {
			t.Fatalf("percentage %v: got %v, want %v", pct, got, want)
		}
	}
}

func TestCalculateDiscountInvalid(t *testing.T) {
	for _, pct := range []float64{-10, 110, -0.0001, 100.0001} {
		p := NewProduct("Laptop", 1000.0, 10)
		_, err := p.CalculateDiscount(pct)
		if !errors.Is(err, ErrInvalidDiscount) {
			t.Errorf("percentage %v: expected ErrInvalidDiscount, got %v", pct, err)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("percentage %v: expected error to wrap ErrInvalidArgument", pct)
		}
		if p.Price() != 1000.0 {
			t.Errorf("price mutated to %v", p.Price())
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	p := NewProduct("Keyboard", 49.5, 7)
	p.ReduceStock(2)

	rec := Record(id, p)
	if rec.ID != id || rec.Name != "Keyboard" || rec.Price != 49.5 || rec.Stock != 5 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	back := rec.Product()
	if back.Name() != p.Name() || back.Price() != p.Price() || back.Stock() != p.Stock() {
		t.Fatalf("record did not restore product: %+v", rec)
	}
}
