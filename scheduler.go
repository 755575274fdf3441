package main

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartScheduler runs runFn on the configured cron spec (default Monday
// 08:00) in the configured timezone. The returned cron keeps running until
// the process exits.
func StartScheduler(cfg Config, runFn func()) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.ScheduleCron, runFn); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("scheduler started spec=%q timezone=%s", cfg.ScheduleCron, cfg.Timezone)
	return c, nil
}
