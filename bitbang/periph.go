package bitbang

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

type periphPin struct {
	p gpio.PinOut
}

func (pp periphPin) out(l gpio.Level) {
	if err := pp.p.Out(l); err != nil {
		log.Printf("bitbang: %s: %v", pp.p, err)
	}
}

func (pp periphPin) High() { pp.out(gpio.High) }
func (pp periphPin) Low() { pp.out(gpio.Low) }

// NewPeriphPins bit-bangs over periph.io pins. host.Init() has to have run.
func NewPeriphPins(data, clock, cs gpio.PinOut) *Shifter {
	return New(periphPin{data}, periphPin{clock}, periphPin{cs})
}

// OpenPeriph looks the pins up by name (e.g. "GPIO10").
func OpenPeriph(dataPin, clockPin, csPin string) (*Shifter, error) {
	pins := make([]gpio.PinOut, 3)
	for i, name := range []string{dataPin, clockPin, csPin} {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("bitbang: no gpio pin %q", name)
		}
		pins[i] = p
	}
	return NewPeriphPins(pins[0], pins[1], pins[2]), nil
}

// SPI sends frames over a hardware SPI port, select is driven by the
// controller around each Tx.
type SPI struct {
	c    spi.Conn
	dump bool
}

// NewSPI connects in mode 0, 8 bit words. The MAX7219 tops out at 10MHz.
func NewSPI(p spi.Port, f physic.Frequency) (*SPI, error) {
	if f <= 0 || f > 10*physic.MegaHertz {
		f = physic.MegaHertz
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("bitbang: spi connect: %w", err)
	}
	return &SPI{c: c}, nil
}

func (s *SPI) DebugDump(on bool) {
	s.dump = on
}

func (s *SPI) Transfer(buf []byte) error {
	if s.dump {
		logWrite(buf)
	}
	return s.c.Tx(buf, nil)
}
