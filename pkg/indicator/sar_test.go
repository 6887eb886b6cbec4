package indicator

import (
	"math"
	"testing"
)

func TestSAR_NewSAR(t *testing.T) {
	sar, err := NewSAR(0.02, 0.2)
	if err != nil {
		t.Fatalf("Failed to create SAR: %v", err)
	}
	if sar.IsReady() {
		t.Error("SAR should not be ready before the first bar")
	}

	if _, err := NewSAR(0, 0.2); err == nil {
		t.Error("Expected error for zero step")
	}
	if _, err := NewSAR(0.3, 0.2); err == nil {
		t.Error("Expected error for maxStep < step")
	}
}

func TestSAR_HandComputedTrace(t *testing.T) {
	sar, _ := NewSAR(0.02, 0.2)

	// Bar 1 seeds sar=low, ep=high, uptrend, af=step
	val, err := sar.Update(ohlcBar(0, 10, 9, 9.5))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if val != 9 {
		t.Errorf("Expected seed SAR 9, got %f", val)
	}
	if !sar.IsUptrend() {
		t.Error("Expected initial uptrend")
	}

	// Bar 2: 9 + 0.02*(10-9) = 9.02, clamped to prev low 9; new high
	// raises EP to 11 and AF to 0.04
	val, _ = sar.Update(ohlcBar(1, 11, 10, 10.5))
	if val != 9 {
		t.Errorf("Expected clamped SAR 9, got %f", val)
	}
	if math.Abs(sar.AccelerationFactor()-0.04) > 1e-12 {
		t.Errorf("Expected AF 0.04, got %f", sar.AccelerationFactor())
	}
	if sar.ExtremePoint() != 11 {
		t.Errorf("Expected EP 11, got %f", sar.ExtremePoint())
	}

	// Bar 3: 9 + 0.04*(11-9) = 9.08, below min(10, 11) so no clamp;
	// new high again
	val, _ = sar.Update(ohlcBar(2, 12, 11, 11.5))
	if math.Abs(val-9.08) > 1e-12 {
		t.Errorf("Expected SAR 9.08, got %f", val)
	}

	// Bar 4: low 8 breaches the stop — reversal. SAR jumps to the old
	// EP (12), AF resets to step, EP becomes the current low.
	val, _ = sar.Update(ohlcBar(3, 9, 8, 8.5))
	if val != 12 {
		t.Errorf("Expected reversal SAR 12, got %f", val)
	}
	if sar.IsUptrend() {
		t.Error("Expected downtrend after reversal")
	}
	if sar.AccelerationFactor() != 0.02 {
		t.Errorf("Reversal must reset AF to step, got %f", sar.AccelerationFactor())
	}
	if sar.ExtremePoint() != 8 {
		t.Errorf("Expected EP 8 after reversal, got %f", sar.ExtremePoint())
	}

	// Bar 5 (downtrend): 12 + 0.02*(8-12) = 11.92; new low extends EP
	val, _ = sar.Update(ohlcBar(4, 8.5, 7.5, 8))
	if math.Abs(val-11.92) > 1e-12 {
		t.Errorf("Expected SAR 11.92, got %f", val)
	}
	if sar.ExtremePoint() != 7.5 {
		t.Errorf("Expected EP 7.5, got %f", sar.ExtremePoint())
	}
}

func TestSAR_UptrendClampInvariant(t *testing.T) {
	// Within an uptrend the stop never exceeds the lower of the two most
	// recent lows.
	sar, _ := NewSAR(0.02, 0.2)

	prevLow := math.Inf(1)
	for i := 0; i < 40; i++ {
		low := 100.0 + float64(i)
		high := low + 2
		val, err := sar.Update(ohlcBar(i, high, low, low+1))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if !sar.IsUptrend() {
			t.Fatalf("Trend reversed unexpectedly at bar %d", i)
		}
		if i > 0 && val > math.Min(prevLow, low) {
			t.Errorf("Bar %d: SAR %f above clamp %f", i, val, math.Min(prevLow, low))
		}
		prevLow = low
	}
}

func TestSAR_AFCapsAtMaxStep(t *testing.T) {
	sar, _ := NewSAR(0.02, 0.1)

	// Every bar sets a new high, so AF increments until the cap
	for i := 0; i < 20; i++ {
		low := 50.0 + float64(i)*5
		_, _ = sar.Update(ohlcBar(i, low+3, low, low+2))
	}
	if sar.AccelerationFactor() > 0.1 {
		t.Errorf("AF exceeded max step: %f", sar.AccelerationFactor())
	}
}

func TestSAR_PublishesSingleValueUnderName(t *testing.T) {
	sar, _ := NewSAR(0.02, 0.2)
	if sar.Name() != "psar_0.02_0.2" {
		t.Errorf("Unexpected name: %s", sar.Name())
	}
	// Snapshot assembly stores multi-value calculators under their own
	// keys instead of Name(); SAR must stay single-value so downstream
	// lookups by Name() keep working.
	if _, ok := Calculator(sar).(MultiValueCalculator); ok {
		t.Error("SAR must not implement MultiValueCalculator")
	}
}

func TestSAR_StateCarriesConfig(t *testing.T) {
	sar, _ := NewSAR(0.02, 0.2)
	_, _ = sar.Update(ohlcBar(0, 10, 9, 9.5))

	state, err := sar.State()
	if err != nil {
		t.Fatalf("State() failed: %v", err)
	}
	if state.Value != 9 || state.Step != 0.02 || state.MaxStep != 0.2 {
		t.Errorf("Unexpected state: %+v", state)
	}
}

func TestSAR_Reset(t *testing.T) {
	sar, _ := NewSAR(0.02, 0.2)
	_, _ = sar.Update(ohlcBar(0, 10, 9, 9.5))
	sar.Reset()

	if sar.IsReady() {
		t.Error("SAR should not be ready after reset")
	}
	if _, err := sar.Value(); err == nil {
		t.Error("Expected error after reset")
	}
}
