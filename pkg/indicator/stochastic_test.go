package indicator

import (
	"math"
	"testing"
)

func TestStochastic_NewStochastic(t *testing.T) {
	stoch, err := NewStochastic(14, 3)
	if err != nil {
		t.Fatalf("Failed to create stochastic: %v", err)
	}
	if stoch.Name() != "stoch_14_3" {
		t.Errorf("Expected name 'stoch_14_3', got '%s'", stoch.Name())
	}

	if _, err := NewStochastic(0, 3); err == nil {
		t.Error("Expected error for kPeriod < 1")
	}
	if _, err := NewStochastic(14, 0); err == nil {
		t.Error("Expected error for dPeriod < 1")
	}
}

func TestStochastic_HandComputedTrace(t *testing.T) {
	stoch, _ := NewStochastic(3, 2)

	// Windows not full yet: no value
	for i, bar := range []struct{ h, l, c float64 }{
		{10, 8, 9},
		{11, 9, 10},
	} {
		val, err := stoch.Update(ohlcBar(i, bar.h, bar.l, bar.c))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if val != 0 || stoch.IsReady() {
			t.Errorf("Expected no value at bar %d", i)
		}
	}

	// Bar 3 fills the windows: hh=12 ll=8, %K = (11-8)/4*100 = 75
	val, _ := stoch.Update(ohlcBar(2, 12, 10, 11))
	if math.Abs(val-75) > 1e-12 {
		t.Errorf("Expected %%K 75, got %f", val)
	}
	d, err := stoch.D()
	if err != nil {
		t.Fatalf("D() failed: %v", err)
	}
	if math.Abs(d-75) > 1e-12 {
		t.Errorf("Expected %%D 75, got %f", d)
	}

	// Bar 4: window slides to hh=12 ll=7, %K = (8-7)/5*100 = 20,
	// %D = (75+20)/2 = 47.5
	val, _ = stoch.Update(ohlcBar(3, 9, 7, 8))
	if math.Abs(val-20) > 1e-12 {
		t.Errorf("Expected %%K 20, got %f", val)
	}
	d, _ = stoch.D()
	if math.Abs(d-47.5) > 1e-12 {
		t.Errorf("Expected %%D 47.5, got %f", d)
	}
}

func TestStochastic_KStaysInRange(t *testing.T) {
	stoch, _ := NewStochastic(5, 3)

	// Pseudo-random walk keeping low <= close <= high
	price := 100.0
	for i := 0; i < 200; i++ {
		step := math.Sin(float64(i)*0.7)*3 + math.Cos(float64(i)*1.3)
		price += step
		high := price + math.Abs(step)/2 + 0.5
		low := price - math.Abs(step)/2 - 0.5

		val, err := stoch.Update(ohlcBar(i, high, low, price))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if !stoch.IsReady() {
			continue
		}
		if val < 0 || val > 100 {
			t.Fatalf("%%K out of range at bar %d: %f", i, val)
		}
		d, _ := stoch.D()
		if d < 0 || d > 100 {
			t.Fatalf("%%D out of range at bar %d: %f", i, d)
		}
	}
}

func TestStochastic_FlatRangeEmitsMidpoint(t *testing.T) {
	stoch, _ := NewStochastic(3, 2)

	var val float64
	for i := 0; i < 5; i++ {
		val, _ = stoch.Update(ohlcBar(i, 50, 50, 50))
	}
	if val != 50 {
		t.Errorf("Expected midpoint 50 for flat range, got %f", val)
	}
}

func TestStochastic_Values(t *testing.T) {
	stoch, _ := NewStochastic(2, 2)

	if _, err := stoch.Values(); err == nil {
		t.Error("Expected error before windows fill")
	}

	_, _ = stoch.Update(ohlcBar(0, 10, 8, 9))
	_, _ = stoch.Update(ohlcBar(1, 12, 9, 11))

	values, err := stoch.Values()
	if err != nil {
		t.Fatalf("Values() failed: %v", err)
	}
	if _, ok := values["stoch_k"]; !ok {
		t.Error("Missing stoch_k")
	}
	if _, ok := values["stoch_d"]; !ok {
		t.Error("Missing stoch_d")
	}
}
