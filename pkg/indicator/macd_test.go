package indicator

import (
	"math"
	"testing"
)

func TestMACD_NewMACD(t *testing.T) {
	macd, err := NewMACD(12, 26, 9)
	if err != nil {
		t.Fatalf("Failed to create MACD: %v", err)
	}
	if macd.Name() != "macd_12_26_9" {
		t.Errorf("Expected name 'macd_12_26_9', got '%s'", macd.Name())
	}

	if _, err := NewMACD(26, 12, 9); err == nil {
		t.Error("Expected error for fast >= slow")
	}
	if _, err := NewMACD(0, 26, 9); err == nil {
		t.Error("Expected error for period < 1")
	}
}

func TestMACD_HandComputedTrace(t *testing.T) {
	// EMA(1) tracks the price exactly, EMA(3) halves the distance, so the
	// trace is easy to follow by hand.
	macd, _ := NewMACD(1, 3, 2)

	// Bar 1: both EMAs seed at 10, line 0, not ready
	val, err := macd.Update(closeBar(0, 10))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if val != 0 || macd.IsReady() {
		t.Error("MACD should not report before slowPeriod bars")
	}

	// Bar 2: fast 20, slow 15, line 5, signal 10/3 — still converging
	val, _ = macd.Update(closeBar(1, 20))
	if val != 0 || macd.IsReady() {
		t.Error("MACD should not report before slowPeriod bars")
	}

	// Bar 3: fast 30, slow 22.5, line 7.5, signal 55/9, hist 12.5/9
	val, _ = macd.Update(closeBar(2, 30))
	if !macd.IsReady() {
		t.Fatal("MACD should be ready after slowPeriod bars")
	}
	if math.Abs(val-7.5) > 1e-12 {
		t.Errorf("Expected MACD line 7.5, got %f", val)
	}

	values, err := macd.Values()
	if err != nil {
		t.Fatalf("Values() failed: %v", err)
	}
	if math.Abs(values["macd_signal"]-55.0/9.0) > 1e-12 {
		t.Errorf("Expected signal %f, got %f", 55.0/9.0, values["macd_signal"])
	}
	if math.Abs(values["macd_hist"]-12.5/9.0) > 1e-12 {
		t.Errorf("Expected histogram %f, got %f", 12.5/9.0, values["macd_hist"])
	}
}

func TestMACD_ConstantStreamConvergesToZero(t *testing.T) {
	macd, _ := NewMACD(3, 6, 4)

	var val float64
	for i := 0; i < 50; i++ {
		val, _ = macd.Update(closeBar(i, 100))
	}
	if math.Abs(val) > 1e-9 {
		t.Errorf("Expected MACD line 0 for constant prices, got %f", val)
	}
}

func TestMACD_Reset(t *testing.T) {
	macd, _ := NewMACD(3, 6, 4)
	for i := 0; i < 10; i++ {
		_, _ = macd.Update(closeBar(i, 100+float64(i)))
	}
	macd.Reset()

	if macd.IsReady() {
		t.Error("MACD should not be ready after reset")
	}
	if _, err := macd.Values(); err == nil {
		t.Error("Expected error after reset")
	}
}
