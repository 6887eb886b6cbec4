package indicator

import (
	"math"
	"testing"
)

func TestSMA_NewSMA(t *testing.T) {
	sma, err := NewSMA(20)
	if err != nil {
		t.Fatalf("Failed to create SMA: %v", err)
	}
	if sma.Name() != "sma_20" {
		t.Errorf("Expected name 'sma_20', got '%s'", sma.Name())
	}

	if _, err := NewSMA(0); err == nil {
		t.Error("Expected error for period < 1")
	}
}

func TestSMA_NotReadyUntilWindowFills(t *testing.T) {
	sma, _ := NewSMA(3)

	for i := 0; i < 2; i++ {
		val, err := sma.Update(closeBar(i, 10))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if val != 0 || sma.IsReady() {
			t.Errorf("Expected no value at bar %d", i)
		}
	}
	if _, err := sma.Value(); err == nil {
		t.Error("Expected error before window fills")
	}
}

func TestSMA_RollingAverage(t *testing.T) {
	sma, _ := NewSMA(3)

	prices := []float64{10, 20, 30, 40, 50}
	want := []float64{0, 0, 20, 30, 40}

	for i, p := range prices {
		val, err := sma.Update(closeBar(i, p))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if math.Abs(val-want[i]) > 1e-12 {
			t.Errorf("Bar %d: expected SMA %f, got %f", i, want[i], val)
		}
	}
}

func TestSMA_Reset(t *testing.T) {
	sma, _ := NewSMA(2)
	_, _ = sma.Update(closeBar(0, 10))
	_, _ = sma.Update(closeBar(1, 20))
	sma.Reset()

	if sma.IsReady() {
		t.Error("SMA should not be ready after reset")
	}
	if sma.BarsProcessed() != 0 {
		t.Errorf("Expected 0 bars processed after reset, got %d", sma.BarsProcessed())
	}
}
