package config

import "github.com/spf13/viper"

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	MapZoomLevel  int    `mapstructure:"MAP_ZOOM_LEVEL"`
}

// Load reads configuration from the environment. REDIS_ADDR is empty by
// default, which keeps render fan-out local to the process.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("MAP_ZOOM_LEVEL", 13)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	if cfg.MapZoomLevel <= 0 {
		cfg.MapZoomLevel = 13
	}
	return cfg
}
