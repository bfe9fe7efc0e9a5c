package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is Linux only")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	want := filepath.Join(dir, "bluetui", "config.yaml")
	if got != want {
		t.Errorf("GetConfigPath() = %v, want %v", got, want)
	}
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Config
		wantErr string
	}{
		{
			name:    "empty file",
			content: "",
			want:    Config{LogFile: "bluetui.log"},
		},
		{
			name:    "all fields",
			content: "adapter: hci1\nlog_file: /tmp/bt.log\nlog_level: debug\n",
			want:    Config{Adapter: "hci1", LogFile: "/tmp/bt.log", LogLevel: "debug"},
		},
		{
			name:    "empty log file keeps default",
			content: "log_file: \"\"\n",
			want:    Config{LogFile: "bluetui.log"},
		},
		{
			name:    "malformed",
			content: "adapter: [hci0\n",
			wantErr: "failed to parse",
		},
		{
			name:    "bad level",
			content: "log_level: chatty\n",
			wantErr: "unknown log level",
		},
		{
			name:    "bad adapter",
			content: "adapter: /org/bluez/hci0\n",
			wantErr: "controller name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			got, err := LoadFrom(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadFrom() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFrom() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("LoadFrom() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	got, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if *got != *Default() {
		t.Errorf("LoadFrom() = %+v, want defaults", *got)
	}
}
