package util

import "fmt"

var sizeUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// FormatBytes renders a chunk length in binary units, always 8 columns
// wide so the Length column of the chunk table lines up: "42.0   B",
// " 1.5 KiB". Values step up a unit once they pass 99 so the number
// never needs a third integer digit.
func FormatBytes(n uint64) string {
	size := float64(n)
	unit := 0
	for size > 99 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%4.1f %3s", size, sizeUnits[unit])
}
