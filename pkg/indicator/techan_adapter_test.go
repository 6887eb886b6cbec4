package indicator

import (
	"testing"
)

func TestNewATR_InvalidPeriod(t *testing.T) {
	if _, err := NewATR(0); err == nil {
		t.Error("Expected error for zero period")
	}
}

func TestATR_NameAndWarmup(t *testing.T) {
	atr, err := NewATR(3)
	if err != nil {
		t.Fatalf("Failed to create ATR: %v", err)
	}
	if atr.Name() != "atr_3" {
		t.Errorf("Unexpected name: %s", atr.Name())
	}
	if atr.IsReady() {
		t.Error("ATR should not be ready before any bars")
	}

	// Two bars is below the period; the calculator stays in warmup
	for i := 0; i < 2; i++ {
		if _, err := atr.Update(ohlcBar(i, 102, 100, 101)); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	if atr.IsReady() {
		t.Error("ATR should not be ready after 2 bars with period 3")
	}
	if _, err := atr.Value(); err == nil {
		t.Error("Expected error reading value during warmup")
	}
}

func TestATR_PositiveOnRangingBars(t *testing.T) {
	atr, _ := NewATR(3)

	// Constant 2-point bar range: once the window has settled the average
	// true range must be strictly positive.
	var last float64
	for i := 0; i < 6; i++ {
		base := 100.0 + float64(i)
		val, err := atr.Update(ohlcBar(i, base+2, base, base+1))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		last = val
	}
	if !atr.IsReady() {
		t.Fatal("ATR should be ready after 6 bars")
	}
	if last <= 0 {
		t.Errorf("Expected positive ATR, got %f", last)
	}

	val, err := atr.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if val != last {
		t.Errorf("Value() %f diverged from last Update %f", val, last)
	}
}

func TestATR_Reset(t *testing.T) {
	atr, _ := NewATR(3)
	for i := 0; i < 4; i++ {
		_, _ = atr.Update(ohlcBar(i, 102, 100, 101))
	}
	atr.Reset()

	if atr.IsReady() {
		t.Error("ATR should not be ready after reset")
	}
	if _, err := atr.Value(); err == nil {
		t.Error("Expected error after reset")
	}
}
