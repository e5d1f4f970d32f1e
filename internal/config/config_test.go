package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.JWTSecret == "" {
		t.Fatalf("expected default jwt secret")
	}
	if cfg.MapZoomLevel != 13 {
		t.Fatalf("expected default zoom 13, got %d", cfg.MapZoomLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MAP_ZOOM_LEVEL", "15")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisPassword != "pw" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.MapZoomLevel != 15 {
		t.Fatalf("expected override zoom")
	}
}

func TestLoadInvalidZoomFallsBack(t *testing.T) {
	t.Setenv("MAP_ZOOM_LEVEL", "0")
	if cfg := Load(); cfg.MapZoomLevel != 13 {
		t.Fatalf("expected fallback zoom, got %d", cfg.MapZoomLevel)
	}
}
