package storage_test

import (
	"strings"
	"testing"

	"github.com/digital-directions/stagegate/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "archives" {
		t.Errorf("container_name: got %s, want archives", cfg.ContainerName)
	}
	if cfg.MaxListSize != 50 {
		t.Errorf("max_list_size: got %d, want 50", cfg.MaxListSize)
	}
}

func TestFinalizeMaxListCap(t *testing.T) {
	cfg := storage.Config{ConnectionString: "conn", MaxListSize: 10000}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.MaxListSize != storage.MaxListCap {
		t.Errorf("max_list_size: got %d, want cap %d", cfg.MaxListSize, storage.MaxListCap)
	}
}

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback int32
		want     int32
		wantErr  bool
	}{
		{"empty uses fallback", "", 50, 50, false},
		{"valid value", "25", 50, 25, false},
		{"invalid errors", "abc", 50, 0, true},
		{"zero errors", "0", 50, 0, true},
		{"negative errors", "-5", 50, 0, true},
		{"above cap clamps", "9999", 50, storage.MaxListCap, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ParseMaxResults(tt.raw, tt.fallback)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMaxResults(%q, %d) expected error", tt.raw, tt.fallback)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMaxResults(%q, %d) failed: %v", tt.raw, tt.fallback, err)
			}
			if got != tt.want {
				t.Errorf("ParseMaxResults(%q, %d) = %d, want %d", tt.raw, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "uploads")
	t.Setenv("TEST_CONN", "override-connection")

	env := &storage.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "uploads" {
		t.Errorf("container_name: got %s, want uploads", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string: got %s, want override-connection", cfg.ConnectionString)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "missing connection_string",
			cfg:     storage.Config{ContainerName: "archives"},
			wantErr: "connection_string required",
		},
		{
			name:    "missing container_name after clearing default",
			cfg:     storage.Config{ConnectionString: "conn"},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		ContainerName:    "archives",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{ConnectionString: "overlay-conn"}
	base.Merge(&overlay)

	if base.ContainerName != "archives" {
		t.Errorf("container_name should remain archives, got %s", base.ContainerName)
	}
	if base.ConnectionString != "overlay-conn" {
		t.Errorf("connection_string: got %s, want overlay-conn", base.ConnectionString)
	}
}
