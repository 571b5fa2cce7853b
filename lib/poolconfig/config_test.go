package poolconfig

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	fc, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fc != DefaultFileConfig() {
		t.Fatalf("expected defaults, got %+v", fc)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.toml")
	want := FileConfig{MaxSize: 20, InitialSize: 5, AcquireTimeout: 2 * time.Second}

	if err := Save(want, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []FileConfig{
		{MaxSize: 0},
		{MaxSize: 5, InitialSize: -1},
		{MaxSize: 5, InitialSize: 10},
		{MaxSize: 5, AcquireTimeout: -time.Second},
	}
	for _, fc := range cases {
		if err := fc.Validate(); err == nil {
			t.Errorf("expected error for %+v", fc)
		}
	}
}

func TestOptionsAppliesToPoolConfig(t *testing.T) {
	fc := FileConfig{MaxSize: 7, InitialSize: 2, AcquireTimeout: time.Second}
	opts := Options[int](fc)
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
}
