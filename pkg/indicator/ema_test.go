package indicator

import (
	"math"
	"testing"
)

func TestEMA_NewEMA(t *testing.T) {
	ema, err := NewEMA(20)
	if err != nil {
		t.Fatalf("Failed to create EMA: %v", err)
	}
	if ema.Name() != "ema_20" {
		t.Errorf("Expected name 'ema_20', got '%s'", ema.Name())
	}

	_, err = NewEMA(0)
	if err == nil {
		t.Error("Expected error for period < 1")
	}
}

func TestEMA_FirstBarSeedsPrice(t *testing.T) {
	ema, _ := NewEMA(10)

	val, err := ema.Update(closeBar(0, 42.5))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if val != 42.5 {
		t.Errorf("Expected first EMA to equal the price, got %f", val)
	}
	if !ema.IsReady() {
		t.Error("EMA should be ready after first bar")
	}
}

func TestEMA_ConstantStreamIsFixedPoint(t *testing.T) {
	ema, _ := NewEMA(9)

	for i := 0; i < 30; i++ {
		val, err := ema.Update(closeBar(i, 75.0))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if math.Abs(val-75.0) > 1e-12 {
			t.Fatalf("Constant stream should keep EMA at 75, got %f at bar %d", val, i)
		}
	}
}

func TestEMA_Recurrence(t *testing.T) {
	ema, _ := NewEMA(3) // multiplier = 0.5

	_, _ = ema.Update(closeBar(0, 10))
	val, _ := ema.Update(closeBar(1, 20))
	if math.Abs(val-15.0) > 1e-12 {
		t.Errorf("Expected 15, got %f", val)
	}
	val, _ = ema.Update(closeBar(2, 30))
	if math.Abs(val-22.5) > 1e-12 {
		t.Errorf("Expected 22.5, got %f", val)
	}
}

func TestEMA_ValueDoesNotMutate(t *testing.T) {
	ema, _ := NewEMA(3)
	_, _ = ema.Update(closeBar(0, 10))
	_, _ = ema.Update(closeBar(1, 20))

	first, err := ema.Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}
	second, _ := ema.Value()
	if first != second {
		t.Errorf("Value() mutated state: %f != %f", first, second)
	}
}

func TestEMA_Reset(t *testing.T) {
	ema, _ := NewEMA(5)
	_, _ = ema.Update(closeBar(0, 10))
	ema.Reset()

	if ema.IsReady() {
		t.Error("EMA should not be ready after reset")
	}
	if _, err := ema.Value(); err == nil {
		t.Error("Expected error after reset")
	}
}
