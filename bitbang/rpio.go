package bitbang

import (
	"github.com/stianeikeland/go-rpio"
)

// OpenRPIO maps /dev/gpiomem and drives BCM pins directly.
func OpenRPIO(dataPin, clockPin, csPin int) (*Shifter, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}

	pins := make([]rpio.Pin, 3)
	for i, n := range []int{dataPin, clockPin, csPin} {
		pins[i] = rpio.Pin(n)
		pins[i].Output()
	}

	s := New(pins[0], pins[1], pins[2])
	s.close = rpio.Close
	return s, nil
}
