package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"dscheirer.com/segclock/max72xx"
)

const auditMax = 256

// logDisplay is a transport with no chain behind it. It decodes every
// frame into per chip registers and logs the digits when they change.
type logDisplay struct {
	mu        sync.Mutex
	registers [][max72xx.DigitsPerDriver]byte
	debugDump bool
	changed   bool // since the last dump
	audit     []string
}

func newLogDisplay(digits int, debugDump bool) *logDisplay {
	return &logDisplay{
		registers: make([][max72xx.DigitsPerDriver]byte, max72xx.RoundDigits(digits)/max72xx.DigitsPerDriver),
		debugDump: debugDump,
	}
}

func (ld *logDisplay) Transfer(wire []byte) error {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	if len(wire) != 2*len(ld.registers) {
		return fmt.Errorf("logDisplay: %d bytes for %d drivers", len(wire), len(ld.registers))
	}

	var sb strings.Builder
	// the last chip's word comes first
	for i := 0; i < len(ld.registers); i++ {
		chip := len(ld.registers) - 1 - i
		op, data := wire[2*i], wire[2*i+1]
		fmt.Fprintf(&sb, "%02x%02x ", op, data)
		if op >= 0x01 && op <= 0x08 && ld.registers[chip][op-1] != data {
			ld.registers[chip][op-1] = data
			ld.changed = true
		}
	}
	ld.audit = append(ld.audit, strings.TrimSpace(sb.String()))
	if len(ld.audit) > auditMax {
		ld.audit = ld.audit[len(ld.audit)-auditMax:]
	}

	// digit 7 is the last register of a frame
	if ld.changed && wire[0] == 0x08 {
		ld.changed = false
		if ld.debugDump {
			log.Println(max72xx.Dump(ld.digits()))
		}
	}
	return nil
}

func (ld *logDisplay) digits() []byte {
	out := make([]byte, 0, max72xx.DigitsPerDriver*len(ld.registers))
	for _, r := range ld.registers {
		out = append(out, r[:]...)
	}
	return out
}

// Digits is every digit register, chip*8 + digit
func (ld *logDisplay) Digits() []byte {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	return ld.digits()
}

// Audit is the most recent transfers, as "oodd" words in wire order
func (ld *logDisplay) Audit() []string {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	return append([]string(nil), ld.audit...)
}
