package bitbang

import (
	"log"

	"github.com/warthog618/go-gpiocdev"
)

type linePin struct {
	line *gpiocdev.Line
}

func (l linePin) set(v int) {
	if err := l.line.SetValue(v); err != nil {
		log.Printf("bitbang: line %d: %v", l.line.Offset(), err)
	}
}

func (l linePin) High() { l.set(1) }
func (l linePin) Low() { l.set(0) }

// OpenGPIOCDev requests the three lines from a character device chip
// (e.g. "gpiochip0") as outputs.
func OpenGPIOCDev(chip string, dataPin, clockPin, csPin int) (*Shifter, error) {
	lines := make([]*gpiocdev.Line, 0, 3)
	closeAll := func() error {
		var first error
		for _, l := range lines {
			if err := l.Close(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	for _, offset := range []int{dataPin, clockPin, csPin} {
		line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
		if err != nil {
			// clean up any lines we've already requested
			closeAll()
			return nil, err
		}
		lines = append(lines, line)
	}

	s := New(linePin{lines[0]}, linePin{lines[1]}, linePin{lines[2]})
	s.close = closeAll
	return s, nil
}
