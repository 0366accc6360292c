package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	RoomCapacity      int           `mapstructure:"room_capacity" yaml:"room_capacity"`
	SingleRoom        bool          `mapstructure:"single_room" yaml:"single_room"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	StaticDir         string        `mapstructure:"static_dir" yaml:"static_dir"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
// Rooms hold two peers; a connection sits in at most one room at a time.
func Default() Config {
	return Config{
		Addr:              ":5000",
		RoomCapacity:      2,
		SingleRoom:        true,
		LogLevel:          "info",
		StaticDir:         "web/static",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}
