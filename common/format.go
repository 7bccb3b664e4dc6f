package common

import (
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
)

// FormatPositions renders one "x y" pair per line with the shortest
// representation that round-trips.
func FormatPositions(points []cp.Vector) string {
	var b strings.Builder
	for _, p := range points {
		b.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}
