package main

import (
	"sync"
	"time"

	"dscheirer.com/segclock/effects"
	"dscheirer.com/segclock/max72xx"
)

const defaultRefreshRate = 40
const maxRefreshRate = 50

// refreshPeriod turns frames per second into the loop period
func refreshPeriod(rate int) time.Duration {
	if rate <= 0 {
		rate = defaultRefreshRate
	}
	if rate > maxRefreshRate {
		rate = maxRefreshRate
	}
	return time.Second / time.Duration(rate)
}

// untilWake is how long to sleep to wake at wake, never negative. A frame
// that ran long gets no sleep at all.
func untilWake(wake time.Time, now time.Time) time.Duration {
	d := wake.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// displayStatus is the last frame the loop pushed out, for readers on other
// goroutines
type displayStatus struct {
	mu       sync.Mutex
	frame    []byte
	mode     int
	position int
	frames   int
	overruns int
	updated  time.Time
}

type statusSnapshot struct {
	Frame    []byte
	Mode     int
	Position int
	Frames   int
	Overruns int
	Updated  time.Time
}

func (ds *displayStatus) publish(frame []byte, dc *effects.DigitalClock, at time.Time, overrun bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.frame = frame
	ds.mode = dc.Mode()
	ds.position = dc.Position()
	ds.frames++
	if overrun {
		ds.overruns++
	}
	ds.updated = at
}

func (ds *displayStatus) snapshot() statusSnapshot {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	frame := make([]byte, len(ds.frame))
	copy(frame, ds.frame)
	return statusSnapshot{
		Frame:    frame,
		Mode:     ds.mode,
		Position: ds.position,
		Frames:   ds.frames,
		Overruns: ds.overruns,
		Updated:  ds.updated,
	}
}

// frameRenderer holds the effects drawn every frame, in drawing order
type frameRenderer struct {
	display     *max72xx.Display
	bullet      *effects.Bullet // nil when off
	timeUp      *effects.TimeUp // nil when off
	clock       *effects.DigitalClock
	clockPos    int
	extraSpaces bool
}

func newFrameRenderer(rt runtimeConfig) *frameRenderer {
	d := rt.display
	fr := &frameRenderer{
		display:     d,
		clock:       effects.NewDigitalClock(),
		clockPos:    rt.settings.GetInt(sClockPos),
		extraSpaces: rt.settings.GetBool(sExtraSpaces),
	}
	if rt.settings.GetBool(sIndicator) {
		fr.bullet = &effects.Bullet{}
	}
	if rt.settings.GetBool(sUptime) {
		fr.timeUp = effects.NewTimeUp(d, rt.settings.GetInt(sUptimePos))
	}

	mode, err := effects.ParseMode(rt.settings.GetString(sClockMode))
	if err != nil {
		rt.logger.Printf("Error: %s", err)
		mode = effects.SecondsDigital
	}
	if !fr.setMode(rt.logger, mode) {
		// the digital clock fits anywhere there's 6 digits
		fr.setMode(rt.logger, effects.SecondsDigital)
	}
	return fr
}

func (fr *frameRenderer) setMode(logger flogger, mode int) bool {
	if !fr.clock.SetMode(fr.display, mode, fr.clockPos, fr.extraSpaces) {
		logger.Printf("Error: clock mode %s doesn't work on %d digits", effects.ModeName(mode), fr.display.Len())
		return false
	}
	logger.Printf("clock mode %s at %d", effects.ModeName(mode), fr.clock.Position())
	return true
}

func (fr *frameRenderer) render(now time.Time, up time.Duration) {
	d := fr.display
	d.Clear(true)
	if fr.bullet != nil {
		fr.bullet.Update(d)
	}
	if fr.timeUp != nil {
		fr.timeUp.Update(d, up)
	}
	fr.clock.Update(d, now)
}

func openDisplay(rt *runtimeConfig, tx max72xx.Transport) {
	intensity := rt.settings.GetByte(sIntensity)
	rt.display = max72xx.New(tx, &max72xx.Opts{
		Digits:       rt.settings.GetInt(sDigits),
		Intensity:    &intensity,
		TestDuration: rt.settings.GetDuration(sTestTime),
		Sleep:        rt.clock.Sleep,
	})
	rt.display.DebugDump(rt.settings.GetBool(sDebug))
	rt.logger.Printf("display has %d digits on %d drivers", rt.display.Len(), rt.display.Drivers())
}

func startDisplay(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "Display"}
	wg.Add(1)
	go runDisplay(rt)
}

func runDisplay(rt runtimeConfig) {
	defer wg.Done()
	defer func() {
		rt.logger.Println("Exiting runDisplay")
	}()

	fr := newFrameRenderer(rt)
	period := refreshPeriod(rt.settings.GetInt(sRefreshRate))
	rt.logger.Printf("refresh every %s", period)

	for true {
		select {
		case <-rt.comms.quit:
			rt.logger.Println("quit from runDisplay")
			return
		case mode := <-rt.comms.clockMode:
			fr.setMode(rt.logger, mode)
		default:
		}

		start := rt.clock.Now()
		fr.render(start.In(rt.location), rt.uptime.Uptime())
		rt.display.Flip(true)

		wake := start.Add(period)
		now := rt.clock.Now()
		rt.status.publish(rt.display.Visible(), fr.clock, now, now.After(wake))
		rt.clock.Sleep(untilWake(wake, now))
	}
}
