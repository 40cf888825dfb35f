package effects

import (
	"fmt"
	"time"
)

// "ddd hh mm ss.t" takes 13 digits, the '.' rides on a digit
const timeUpLength = 13

// TimeUp shows how long we've been running.
type TimeUp struct {
	position int
}

// NewTimeUp puts the counter at pos if it fits, otherwise at 0.
func NewTimeUp(d Display, pos int) *TimeUp {
	tu := &TimeUp{}
	if pos >= 0 && pos+timeUpLength <= d.Len() {
		tu.position = pos
	}
	return tu
}

func (tu *TimeUp) Position() int {
	return tu.position
}

// FormatUptime is days, hours, minutes, seconds and tenths in fixed width
func FormatUptime(up time.Duration) string {
	if up < 0 {
		up = 0
	}
	ms := int64(up / time.Millisecond)
	days := ms / (24 * 3600 * 1000)
	ms -= days * 24 * 3600 * 1000
	hours := ms / (3600 * 1000)
	ms -= hours * 3600 * 1000
	minutes := ms / (60 * 1000)
	ms -= minutes * 60 * 1000
	seconds := ms / 1000
	ms -= seconds * 1000

	return fmt.Sprintf("%03d %02d %02d %02d.%d", days, hours, minutes, seconds, ms/100)
}

func (tu *TimeUp) Update(d Display, up time.Duration) int {
	return d.Print(FormatUptime(up), tu.position)
}
