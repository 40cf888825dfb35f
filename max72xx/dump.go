package max72xx

import "strings"

func segOn(v byte, seg byte, on string) string {
	if v&seg != 0 {
		return on
	}
	return strings.Repeat(" ", len(on))
}

// DumpLines draws segment masks as 5 lines of ASCII, 4 columns per digit
//
//	 -     -     -
//	| |   | |   | |
//	 -     -     -
//	| |   | |   | |
//	 - .   -     -
func DumpLines(digits []byte) []string {
	var rows [5]strings.Builder
	for _, v := range digits {
		rows[0].WriteString(" " + segOn(v, SEG_A, "-") + "  ")
		rows[1].WriteString(segOn(v, SEG_F, "|") + " " + segOn(v, SEG_B, "|") + " ")
		rows[2].WriteString(" " + segOn(v, SEG_G, "-") + "  ")
		rows[3].WriteString(segOn(v, SEG_E, "|") + " " + segOn(v, SEG_C, "|") + " ")
		rows[4].WriteString(" " + segOn(v, SEG_D, "-") + " " + segOn(v, SEG_DP, "."))
	}
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return lines
}

// Dump is DumpLines as one block for the log
func Dump(digits []byte) string {
	return "\n" + strings.Join(DumpLines(digits), "\n") + "\n"
}
