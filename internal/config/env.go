package config

import (
	"os"
	"strconv"
	"time"
)

// AdapterEnv holds the environment-sourced settings for the external
// collaborators (HTTP adapter, scheduler) — never consulted by the
// core itself (spec §6 "Environment").
type AdapterEnv struct {
	Port               string
	SimulationInterval time.Duration
	FrontendURL        string
	RedisAddr          string // optional snapshot cache; "" disables it
	NATSURL            string // optional tick broadcast; "" disables it
}

// LoadAdapterEnv reads PORT, SIMULATION_INTERVAL, FRONTEND_URL and the
// ambient REDIS_ADDR/NATS_URL, applying the same defaults the teacher's
// cmd/ binaries fall back to for local development.
func LoadAdapterEnv() AdapterEnv {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	intervalMs := 1000
	if v := os.Getenv("SIMULATION_INTERVAL"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			intervalMs = parsed
		}
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:5173"
	}

	return AdapterEnv{
		Port:               port,
		SimulationInterval: time.Duration(intervalMs) * time.Millisecond,
		FrontendURL:        frontend,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		NATSURL:            os.Getenv("NATS_URL"),
	}
}
