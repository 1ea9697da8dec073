package sim

import (
	"errors"
	"testing"
)

func TestSimConfig_Validate_AcceptsMinimalValues(t *testing.T) {
	cfg := SimConfig{EventCount: 1, ArrivalRate: 1e-9, ServiceRate: 1e-9, BatchSize: 1}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	cfg.RemovalPolicy = RemovalLIFO
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with lifo = %v, want nil", err)
	}
}

func TestSimConfig_Validate_RejectsNegativeEventCount(t *testing.T) {
	err := SimConfig{EventCount: -5, ArrivalRate: 1, ServiceRate: 1, BatchSize: 1}.Validate()
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Validate() = %v, want ErrInvalidParameter", err)
	}
}
