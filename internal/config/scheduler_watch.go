package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SchedulerHolder serves the current scheduler settings. When a config file
// is in use, edits to it are picked up without a restart.
type SchedulerHolder struct {
	current  atomic.Value
	onReload func(SchedulerConfig, error)
}

func NewSchedulerHolder(cfg Config) *SchedulerHolder {
	h := &SchedulerHolder{}
	h.current.Store(cfg.Scheduler)
	return h
}

func (h *SchedulerHolder) Get() SchedulerConfig {
	return h.current.Load().(SchedulerConfig)
}

// OnReload registers a callback invoked after each reload attempt.
func (h *SchedulerHolder) OnReload(fn func(SchedulerConfig, error)) {
	h.onReload = fn
}

// Watch starts watching the file named by NASIYA_CONFIG_FILE. It reports
// false when no file is configured.
func (h *SchedulerHolder) Watch() bool {
	env := viper.New()
	env.AutomaticEnv()
	file := strings.TrimSpace(env.GetString("NASIYA_CONFIG_FILE"))
	if file == "" {
		return false
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return false
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load()
		if err == nil {
			h.current.Store(cfg.Scheduler)
		}
		if h.onReload != nil {
			h.onReload(h.Get(), err)
		}
	})
	v.WatchConfig()
	return true
}
