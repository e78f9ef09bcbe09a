// pkg/level/write.go
package level

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/opd-ai/go-magball/pkg/physics"
)

// WriteTo writes the level in the format Parse reads.
func (l *Level) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder

	if l.HasBall {
		sb.WriteString("ball " + coords(l.Ball) + "\n")
	}
	if l.HasPocket {
		sb.WriteString("pocket " + coords(l.Pocket))
		if l.PocketRadius > 0 {
			sb.WriteString(" " + formatNumber(l.PocketRadius))
		}
		sb.WriteString("\n")
	}
	if len(l.Boundary) > 0 {
		sb.WriteString("edge " + polygon(l.Boundary) + "\n")
	}
	for _, o := range l.Obstacles {
		sb.WriteString("obstacle " + polygon(o) + "\n")
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// Save writes the level to dir/level_<n>.txt.
func (l *Level) Save(dir string, n int) error {
	file, err := os.Create(filepath.Join(dir, FileName(n)))
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(file)
	if _, err := l.WriteTo(bw); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func coords(v physics.Vector2D) string {
	return formatNumber(v.X) + " " + formatNumber(v.Y)
}

func polygon(points []physics.Vector2D) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = coords(p)
	}
	return strings.Join(parts, " ")
}
