package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// Config wraps viper and provides typed accessors.
type Config struct {
	v *viper.Viper
}

// Load reads a config file and prepares defaults. INI files are flattened
// into viper keys; any other extension is handed to viper directly.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MUSICPLAYER")
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		return &Config{v: v}, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		if err := loadINI(v, path); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{v: v}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Database", "library.db")
	v.SetDefault("MusicDir", "./public/music")
	v.SetDefault("FallbackCoverPath", "")
	v.SetDefault("DefaultTrackID", "default-sun")
	v.SetDefault("DefaultTrackFilename", "sun.mp3")
	v.SetDefault("DefaultTrackTitle", "Sun")
	v.SetDefault("DefaultTrackArtist", "StarTooVoid")
	v.SetDefault("DefaultTrackAlbum", "StarTooVoid Collection")
	v.SetDefault("DefaultVolume", 0.7)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("LogSource", false)
	v.SetDefault("GormLogLevel", "warn")
	v.SetDefault("WorkerPoolSize", 4)
	v.SetDefault("DBMaxOpenConns", 1)
	v.SetDefault("DBMaxIdleConns", 1)
	v.SetDefault("DBConnMaxLifetimeSec", 3600)
}

// GetString returns a string value.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns an int value.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 returns a float64 value.
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool returns a bool value.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func loadINI(v *viper.Viper, path string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return err
	}

	for _, key := range cfg.Section("").Keys() {
		v.Set(key.Name(), key.Value())
	}

	return nil
}
