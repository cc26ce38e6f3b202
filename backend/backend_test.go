package backend

import (
	"errors"
	"testing"
)

var errBroken = errors.New("broken")

func TestRegistryPriority(t *testing.T) {
	Register("test-low", -100, func(Config) (Device, error) { return nil, errBroken })
	Register("test-high", 1000, func(Config) (Device, error) { return nil, errBroken })
	t.Cleanup(func() {
		Unregister("test-low")
		Unregister("test-high")
	})

	names := Available()
	if len(names) < 2 {
		t.Fatalf("Available() = %v", names)
	}
	if names[0] != "test-high" {
		t.Errorf("first backend = %q, want test-high", names[0])
	}
	if names[len(names)-1] != "test-low" {
		t.Errorf("last backend = %q, want test-low", names[len(names)-1])
	}
	if !IsRegistered("test-low") {
		t.Error("test-low should be registered")
	}
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open("does-not-exist", Config{})
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("err = %v, want ErrBackendNotAvailable", err)
	}
}

func TestDefaultReportsFailure(t *testing.T) {
	registryMu.Lock()
	saved := backends
	backends = map[string]entry{}
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		backends = saved
		registryMu.Unlock()
	})

	if _, err := Default(Config{}); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("empty registry: err = %v", err)
	}

	Register("broken", 1, func(Config) (Device, error) { return nil, errBroken })
	if _, err := Default(Config{}); !errors.Is(err, errBroken) {
		t.Errorf("broken backend: err = %v, want errBroken", err)
	}
}

func TestUsageString(t *testing.T) {
	tests := []struct {
		usage Usage
		want  string
	}{
		{0, "0"},
		{UsageRenderTarget, "rendertarget"},
		{UsageDynamic | UsageAutoGenMipmap, "dynamic|autogenmipmap"},
	}
	for _, tt := range tests {
		if got := tt.usage.String(); got != tt.want {
			t.Errorf("Usage(%d).String() = %q, want %q", tt.usage, got, tt.want)
		}
	}
	if got := PoolManaged.String(); got != "managed" {
		t.Errorf("PoolManaged.String() = %q", got)
	}
}
