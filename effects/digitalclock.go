package effects

import (
	"fmt"
	"time"
)

// how the seconds get shown
const (
	SecondsNone             = iota // hours and minutes only
	SecondsDigital                 // hhmmss
	SecondsBorder                  // one lit segment runs round the rim
	SecondsBorderCumulative        // the rim fills up over the minute
	SecondsSides                   // ss on both sides of hhmm
)

var modeNames = map[string]int{
	"none":              SecondsNone,
	"digital":           SecondsDigital,
	"border":            SecondsBorder,
	"border_cumulative": SecondsBorderCumulative,
	"sides":             SecondsSides,
}

// ParseMode turns a config/api name into a seconds mode
func ParseMode(name string) (int, error) {
	mode, ok := modeNames[name]
	if !ok {
		return -1, fmt.Errorf("Bad seconds mode: %s", name)
	}
	return mode, nil
}

func ModeName(mode int) string {
	for k, v := range modeNames {
		if v == mode {
			return k
		}
	}
	return "unknown"
}

// the rim modes only make sense on the 32 digit strip
const ringDigits = 32
const ringPosition = 14

type DigitalClock struct {
	mode        int
	extraSpaces bool
	position    int
}

func NewDigitalClock() *DigitalClock {
	return &DigitalClock{mode: SecondsDigital}
}

func (dc *DigitalClock) Mode() int {
	return dc.mode
}

func (dc *DigitalClock) Position() int {
	return dc.position
}

func (dc *DigitalClock) width() int {
	length := 4
	if dc.mode == SecondsDigital {
		length += 2
	}
	if dc.extraSpaces {
		length++
		if dc.mode == SecondsDigital {
			length++
		}
	}
	return length
}

// SetMode picks how seconds are shown and where the clock goes. The rim
// modes need the 32 digit layout and pin the clock to the middle; asking
// for one on anything else fails and keeps the old setup. For the other
// modes a position that doesn't fit is ignored and the old one is kept.
func (dc *DigitalClock) SetMode(d Display, mode int, pos int, extraSpaces bool) bool {
	switch mode {
	case SecondsBorder, SecondsBorderCumulative, SecondsSides:
		if d.Len() != ringDigits {
			return false
		}
		dc.mode = mode
		dc.position = ringPosition
		dc.extraSpaces = false
	case SecondsNone, SecondsDigital:
		dc.mode = mode
		dc.extraSpaces = extraSpaces
		if pos >= 0 && pos+dc.width() <= d.Len() {
			dc.position = pos
		}
	default:
		return false
	}
	return true
}

func (dc *DigitalClock) text(t time.Time) string {
	sep := ""
	if dc.extraSpaces {
		sep = " "
	}
	if dc.mode == SecondsDigital {
		return fmt.Sprintf("%02d%s%02d%s%02d", t.Hour(), sep, t.Minute(), sep, t.Second())
	}
	return fmt.Sprintf("%02d%s%02d", t.Hour(), sep, t.Minute())
}

// Update draws the time t. The decimal points after the hours (and after
// the minutes when seconds are digital) flip every other second.
func (dc *DigitalClock) Update(d Display, t time.Time) {
	d.Print(dc.text(t), dc.position)

	sec := t.Second()
	if sec%2 == 0 {
		d.Xor(dc.position+1, segDP)
		if dc.mode == SecondsDigital {
			if dc.extraSpaces {
				d.Xor(dc.position+4, segDP)
			} else {
				d.Xor(dc.position+3, segDP)
			}
		}
	}

	switch dc.mode {
	case SecondsBorder:
		addr, seg := rimSegment(sec)
		d.Xor(addr, seg)
	case SecondsBorderCumulative:
		for s := 0; s <= sec; s++ {
			addr, seg := rimSegment(s)
			d.Xor(addr, seg)
		}
	case SecondsSides:
		ss := fmt.Sprintf("%02d", sec)
		d.Print(ss, dc.position-3)
		d.Print(ss, dc.position+dc.width()+1)
	}
}

// rimSegment maps a second onto the segment that lights the rim of the 32
// digit strip, clockwise from the top middle: top edge, right end, bottom
// edge right to left, left end, top edge back to the middle.
func rimSegment(sec int) (int, byte) {
	switch {
	case sec == 0:
		return 13, 0x40
	case sec >= 1 && sec <= 14:
		return 17 + sec, 0x40
	case sec == 15:
		return 31, 0x20
	case sec == 16:
		return 31, 0x10
	case sec >= 17 && sec <= 30:
		return 31 - (sec - 17), 0x08
	case sec >= 31 && sec <= 44:
		return 13 - (sec - 31), 0x08
	case sec == 45:
		return 0, 0x04
	case sec == 46:
		return 0, 0x02
	default:
		return sec - 47, 0x40
	}
}
