package main

import (
	"fmt"
	"log"

	"dscheirer.com/segclock/bitbang"
	"dscheirer.com/segclock/chainsim"
	"dscheirer.com/segclock/max72xx"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// hardware is the transport the display talks through, plus the emulated
// chain when there's no real one
type hardware struct {
	tx    max72xx.Transport
	chain *chainsim.Chain
	close func() error
}

func (hw hardware) Close() error {
	if hw.close == nil {
		return nil
	}
	return hw.close()
}

// periph names BCM pins GPIOnn
func gpioName(bcm int) string {
	return fmt.Sprintf("GPIO%d", bcm)
}

func periphInit() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}
	return nil
}

func openHardware(settings configSettings) (hardware, error) {
	digits := max72xx.RoundDigits(settings.GetInt(sDigits))
	dataPin := settings.GetInt(sDataPin)
	clockPin := settings.GetInt(sClockPin)
	csPin := settings.GetInt(sCSPin)
	debug := settings.GetBool(sDebug)

	driver := settings.GetString(sDriver)
	log.Printf("opening %s driver for %d digits", driver, digits)

	switch driver {
	case drvSim:
		chain := chainsim.New(digits / max72xx.DigitsPerDriver)
		s := bitbang.New(chain.DIN(), chain.CLK(), chain.CS())
		return hardware{tx: s, chain: chain, close: s.Close}, nil

	case drvLog:
		return hardware{tx: newLogDisplay(digits, debug)}, nil

	case drvRPIO:
		s, err := bitbang.OpenRPIO(dataPin, clockPin, csPin)
		if err != nil {
			return hardware{}, fmt.Errorf("rpio: %w", err)
		}
		s.DebugDump(debug)
		return hardware{tx: s, close: s.Close}, nil

	case drvGPIOCDev:
		s, err := bitbang.OpenGPIOCDev(settings.GetString(sGPIOChip), dataPin, clockPin, csPin)
		if err != nil {
			return hardware{}, fmt.Errorf("gpiocdev: %w", err)
		}
		s.DebugDump(debug)
		return hardware{tx: s, close: s.Close}, nil

	case drvPeriph:
		if err := periphInit(); err != nil {
			return hardware{}, err
		}
		s, err := bitbang.OpenPeriph(gpioName(dataPin), gpioName(clockPin), gpioName(csPin))
		if err != nil {
			return hardware{}, err
		}
		s.DebugDump(debug)
		return hardware{tx: s, close: s.Close}, nil

	case drvSPI:
		if err := periphInit(); err != nil {
			return hardware{}, err
		}
		// "" is the first bus found
		port, err := spireg.Open(settings.GetString(sSPIBus))
		if err != nil {
			return hardware{}, fmt.Errorf("spi open: %w", err)
		}
		s, err := bitbang.NewSPI(port, physic.Frequency(settings.GetInt(sSPIHz))*physic.Hertz)
		if err != nil {
			port.Close()
			return hardware{}, err
		}
		s.DebugDump(debug)
		return hardware{tx: s, close: port.Close}, nil
	}

	return hardware{}, fmt.Errorf("unknown driver %q", driver)
}
