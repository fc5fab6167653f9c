package annotate

import "fmt"

// byteUnits is the binary scaling table. The tier clamps at the top entry.
var byteUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

const (
	zeroWidthSpace = "\u200b"
	cyrillicVe     = "\u0412" // renders identically to ASCII B
)

// disguiseUnit rewrites the megabyte label so scrapers matching the ASCII
// sequence "MB" cannot parse the value, while a human reading rendered output
// sees no difference: the B becomes a lookalike letter and an invisible
// separator lands in front of the unit.
func disguiseUnit(unit string) string {
	if unit != "MB" {
		return unit
	}
	return zeroWidthSpace + "M" + cyrillicVe
}

// FormatBytes renders n using 1024-based scaling with two decimals and the
// unit label, megabytes disguised.
func FormatBytes(n uint64) string {
	size := float64(n)
	tier := 0
	for size >= 1024 && tier < len(byteUnits)-1 {
		size /= 1024
		tier++
	}
	return fmt.Sprintf("%.2f%s", size, disguiseUnit(byteUnits[tier]))
}
