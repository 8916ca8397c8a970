package emitter

import (
	"errors"
	"testing"

	"github.com/san-kum/softbody/internal/dynamo"
)

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rate", func(c *Config) { c.Rate = -1 }},
		{"zero mass", func(c *Config) { c.Mass = 0 }},
		{"capacity above max", func(c *Config) { c.Capacity = MaxParticles + 1 }},
		{"negative capacity", func(c *Config) { c.Capacity = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestZeroCapacityDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 0
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if e.Config().Capacity != MaxParticles {
		t.Errorf("expected capacity %d, got %d", MaxParticles, e.Config().Capacity)
	}
}

func TestSwapRemove(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rate = 4
	cfg.Lifespan = 5
	e, _ := New(cfg)
	e.Update(1)
	if e.Count() != 4 {
		t.Fatalf("expected 4 live, got %d", e.Count())
	}

	last := e.live[3].body
	e.remove(1)

	if e.Count() != 3 {
		t.Fatalf("expected 3 live, got %d", e.Count())
	}
	if e.live[1].body != last {
		t.Error("last particle should fill the removed slot")
	}
	if e.Expired() != 1 {
		t.Errorf("expected 1 expired, got %d", e.Expired())
	}
}

func TestNonPositiveDtIsIgnored(t *testing.T) {
	e, _ := New(DefaultConfig())
	e.Update(0)
	e.Update(-0.5)
	if e.Count() != 0 || e.Spawned() != 0 {
		t.Error("non-positive dt should not spawn")
	}
}

func TestSetParam(t *testing.T) {
	e, _ := New(DefaultConfig())

	if err := e.SetParam("elasticity", 0.8); err != nil {
		t.Fatal(err)
	}
	if e.Params()["elasticity"] != 0.8 {
		t.Error("elasticity not applied")
	}
	if err := e.SetParam("rate", -3); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if e.Config().Rate != DefaultConfig().Rate {
		t.Error("rejected value must not be applied")
	}
	if err := e.SetParam("colour", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
