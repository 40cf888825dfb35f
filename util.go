// utility functions
package main

import (
	"log"
	"sync"
	"time"

	"dscheirer.com/segclock/chainsim"
	"dscheirer.com/segclock/max72xx"
	"github.com/jonboulle/clockwork"
)

type commChannels struct {
	quit      chan struct{}
	quitOnce  *sync.Once
	clockMode chan int
}

// stop closes quit once, whoever asks first
func (c commChannels) stop() {
	c.quitOnce.Do(func() {
		close(c.quit)
	})
}

type uptimeSource interface {
	Uptime() time.Duration
}

// time since the runtime got built, read from the same clock as the display
type clockUptime struct {
	clock clockwork.Clock
	boot  time.Time
}

func (cu clockUptime) Uptime() time.Duration {
	return cu.clock.Since(cu.boot)
}

type runtimeConfig struct {
	comms    commChannels
	clock    clockwork.Clock
	location *time.Location
	uptime   uptimeSource
	settings configSettings
	display  *max72xx.Display
	chain    *chainsim.Chain // only when simulated
	status   *displayStatus
	logger   flogger
}

func initCommChannels() commChannels {
	return commChannels{
		quit:      make(chan struct{}),
		quitOnce:  &sync.Once{},
		clockMode: make(chan int, 1),
	}
}

func loadLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Error: timezone %s: %s, using local time", name, err)
		return time.Local
	}
	return loc
}

func initRuntime(clock clockwork.Clock, settings configSettings) runtimeConfig {
	return runtimeConfig{
		comms:    initCommChannels(),
		clock:    clock,
		location: loadLocation(settings.GetString(sTimezone)),
		uptime:   clockUptime{clock: clock, boot: clock.Now()},
		settings: settings,
		status:   &displayStatus{},
		logger:   &ThreadLogger{name: "Main"},
	}
}
