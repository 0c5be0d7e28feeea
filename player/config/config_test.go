package config

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	conf, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("Database") != "library.db" {
		t.Errorf("unexpected Database default: %s", conf.GetString("Database"))
	}
	if conf.GetString("DefaultTrackID") != "default-sun" {
		t.Errorf("unexpected DefaultTrackID default: %s", conf.GetString("DefaultTrackID"))
	}
	if conf.GetFloat64("DefaultVolume") != 0.7 {
		t.Errorf("unexpected DefaultVolume default: %v", conf.GetFloat64("DefaultVolume"))
	}
	if conf.GetInt("WorkerPoolSize") != 4 {
		t.Errorf("unexpected WorkerPoolSize default: %d", conf.GetInt("WorkerPoolSize"))
	}
}

func TestLoadINI(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "player_config_*.ini")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	configContent := `Database = /tmp/test-library.db
MusicDir = /srv/music
LogLevel = debug
WorkerPoolSize = 2
`
	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tmpFile.Close()

	conf, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("Database") != "/tmp/test-library.db" {
		t.Errorf("expected Database override, got %s", conf.GetString("Database"))
	}
	if conf.GetString("LogLevel") != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", conf.GetString("LogLevel"))
	}
	if conf.GetInt("WorkerPoolSize") != 2 {
		t.Errorf("expected WorkerPoolSize=2, got %d", conf.GetInt("WorkerPoolSize"))
	}

	// Untouched keys keep their defaults.
	if conf.GetString("DefaultTrackFilename") != "sun.mp3" {
		t.Errorf("expected default filename, got %s", conf.GetString("DefaultTrackFilename"))
	}
}
