package version

import (
	"runtime/debug"
	"testing"
)

func TestFill(t *testing.T) {
	tests := []struct {
		name        string
		info        debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name: "installed module",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.0"},
			},
			wantVersion: "v0.3.0",
		},
		{
			name: "local dirty build",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantCommit: "0123456-dirty",
		},
		{
			name: "short revision",
			info: debug.BuildInfo{
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}},
			},
			wantCommit: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldVersion, oldCommit := Version, Commit
			t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })
			Version, Commit = "", ""

			fill(&tt.info)
			if Version != tt.wantVersion || Commit != tt.wantCommit {
				t.Errorf("fill() = (%q, %q), want (%q, %q)", Version, Commit, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestFill_KeepsLinkerValues(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })
	Version, Commit = "v1.0.0", "feedbee"

	fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0000000000"}},
	})
	if Full() != "v1.0.0 (commit: feedbee)" {
		t.Errorf("Full() = %q", Full())
	}
}
