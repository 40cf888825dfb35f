package max72xx

// positions of segments in a digit register (no-decode mode)
//
//	 AAA
//	F   B
//	F   B
//	 GGG
//	E   C
//	E   C
//	 DDD  DP
const SEG_G = 0x01
const SEG_F = 0x02
const SEG_E = 0x04
const SEG_D = 0x08
const SEG_C = 0x10
const SEG_B = 0x20
const SEG_A = 0x40
const SEG_DP = 0x80

// charTable maps 7-bit character codes to segment masks, 0 is blank
var charTable = [128]byte{
	// 0x00: raw hex digits 0-F
	0x7E, 0x30, 0x6D, 0x79, 0x33, 0x5B, 0x5F, 0x70,
	0x7F, 0x7B, 0x77, 0x1F, 0x0D, 0x3D, 0x4F, 0x47,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	// 0x20: ' ' ... ','(0x80) '-'(G) '.'(0x80)
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x80, 0x01, 0x80, 0x00,
	// 0x30: '0'-'9'
	0x7E, 0x30, 0x6D, 0x79, 0x33, 0x5B, 0x5F, 0x70,
	0x7F, 0x7B, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	// 0x40: upper case
	0x00, 0x77, 0x1F, 0x0D, 0x3D, 0x4F, 0x47, 0x00,
	0x37, 0x00, 0x00, 0x00, 0x0E, 0x00, 0x00, 0x00,
	0x67, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08,
	// 0x60: lower case
	0x00, 0x77, 0x1F, 0x0D, 0x3D, 0x4F, 0x47, 0x00,
	0x37, 0x04, 0x00, 0x00, 0x0E, 0x00, 0x15, 0x1D,
	0x67, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// Encode returns the segment mask for a character, blank for anything
// we don't know how to draw
func Encode(char byte) byte {
	if int(char) >= len(charTable) {
		return 0
	}
	return charTable[char]
}
