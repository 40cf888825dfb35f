// Package effects draws time based content into a 7-segment display
// buffer. Nothing here talks to hardware, everything goes through Display.
package effects

// Display is the part of max72xx.Display the effects draw with.
type Display interface {
	Set(addr int, v byte) bool
	Overlay(addr int, v byte) bool
	Xor(addr int, v byte) bool
	Print(msg string, addr int) int
	Len() int
}

const segDP = 0x80

// Bullet is a single segment running across the display.
type Bullet struct {
	position int
}

// Update draws the bullet and moves it along, returns the next position.
func (b *Bullet) Update(d Display) int {
	d.Set(b.position, 0x01)
	b.position = (b.position + 1) % d.Len()
	return b.position
}
