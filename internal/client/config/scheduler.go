package config

import "time"

// SchedulerConfig содержит интервалы фоновых задач.
type SchedulerConfig struct {
	TickEvery            time.Duration `yaml:"tick_every" env:"NOTAS_SCHEDULER_TICK" env-default:"1s"`
	SweepInterval        time.Duration `yaml:"sweep_interval" env:"NOTAS_SWEEP_INTERVAL" env-default:"1h"`
	PendingCheckInterval time.Duration `yaml:"pending_check_interval" env:"NOTAS_PENDING_CHECK_INTERVAL" env-default:"30s"`
	ProbeInterval        time.Duration `yaml:"probe_interval" env:"NOTAS_PROBE_INTERVAL" env-default:"15s"`
	WatchDebounce        time.Duration `yaml:"watch_debounce" env:"NOTAS_WATCH_DEBOUNCE" env-default:"250ms"`
}
