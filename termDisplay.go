package main

import (
	"fmt"
	"time"

	"dscheirer.com/segclock/max72xx"
	"github.com/nsf/termbox-go"
)

// two chips per row keeps a 32 digit chain inside 80 columns
const termDigitsPerRow = 2 * max72xx.DigitsPerDriver

const dTermPoll = 100 * time.Millisecond

func startTermDisplay(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "Term"}
	wg.Add(1)
	go runTermDisplay(rt)
}

// drawLit draws what the emulated chips have lit, 5 rows per band of
// digits and a blank row between bands
func drawLit(lit []byte, footer string) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	y := 0
	for start := 0; start < len(lit); start += termDigitsPerRow {
		end := start + termDigitsPerRow
		if end > len(lit) {
			end = len(lit)
		}
		for _, line := range max72xx.DumpLines(lit[start:end]) {
			for x, ch := range line {
				termbox.SetCell(x, y, ch, termbox.ColorRed|termbox.AttrBold, termbox.ColorDefault)
			}
			y++
		}
		y++
	}
	for x, ch := range footer {
		termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
	termbox.Flush()
}

// checkKeyboard waits up to one poll period for a key, true means exit
func checkKeyboard(rt runtimeConfig) bool {
	// no key means keep going
	go func() {
		rt.clock.Sleep(dTermPoll)
		termbox.Interrupt()
	}()

	exit := false
	waitForInterrupt := true
	for waitForInterrupt {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			if ev.Key == termbox.KeyCtrlC || ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
				exit = true
			}
		case termbox.EventError:
			rt.logger.Printf("Error: %s", ev.Err)
			waitForInterrupt = false
		// wait for the interrupt to fire
		default:
			waitForInterrupt = false
		}
	}
	return exit
}

func runTermDisplay(rt runtimeConfig) {
	defer wg.Done()
	defer func() {
		rt.logger.Println("Exiting runTermDisplay")
	}()

	if err := termbox.Init(); err != nil {
		rt.logger.Printf("Error: %s", err)
		return
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	footer := fmt.Sprintf("segclock: %d chips, Esc or q to quit", rt.chain.Len())
	for true {
		select {
		case <-rt.comms.quit:
			rt.logger.Println("quit from runTermDisplay")
			return
		default:
		}

		drawLit(rt.chain.Lit(), footer)
		if checkKeyboard(rt) {
			rt.logger.Println("exit key")
			rt.comms.stop()
			return
		}
	}
}
