package git

import (
	"errors"
	"testing"
)

func TestPickLastMinorVersion(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"single", []string{"1.0.0"}, "1.0.0"},
		{"lowest patch of newest minor", []string{"1.0.0", "1.1.3", "1.1.0", "1.1.1"}, "1.1.0"},
		{"prereleases ignored", []string{"1.1.0", "1.2.0-beta1", "2.0.0-rc1"}, "1.1.0"},
		{"v prefix kept", []string{"v2.3.1", "v2.3.4", "v2.2.9"}, "v2.3.1"},
		{"non-version tags ignored", []string{"nightly", "release-1", "3.0.2", "3.0.1"}, "3.0.1"},
		{"newest major wins", []string{"1.9.0", "10.0.5", "2.0.0", "10.0.2"}, "10.0.2"},
		{"short versions ignored", []string{"1.4", "1.3.7"}, "1.3.7"},
		{"numeric non-version tags ignored", []string{"1", "2024", "0.9.0", "v3"}, "0.9.0"},
		{"build metadata", []string{"1.2.0+build.5", "1.1.0"}, "1.2.0+build.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PickLastMinorVersion(tt.tags)
			if err != nil {
				t.Fatalf("PickLastMinorVersion(%v): %v", tt.tags, err)
			}
			if got != tt.want {
				t.Errorf("PickLastMinorVersion(%v) = %q, want %q", tt.tags, got, tt.want)
			}
		})
	}
}

func TestPickLastMinorVersionNoVersions(t *testing.T) {
	for _, tags := range [][]string{nil, {"nightly"}, {"1.0.0-alpha"}, {"1", "2024", "v1.2"}} {
		if _, err := PickLastMinorVersion(tags); !errors.Is(err, ErrNoVersions) {
			t.Errorf("PickLastMinorVersion(%v) error = %v, want ErrNoVersions", tags, err)
		}
	}
}
