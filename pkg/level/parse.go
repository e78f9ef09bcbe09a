// pkg/level/parse.go
package level

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/opd-ai/go-magball/pkg/physics"
)

// Syntax errors wrapped by ParseError.
var (
	ErrUnknownDirective = errors.New("unknown directive")
	ErrArgumentCount    = errors.New("wrong number of arguments")
	ErrBadNumber        = errors.New("malformed number")
)

// ParseError reports the line a syntax error was found on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a level description. It checks syntax only; call Validate
// for geometry.
func Parse(r io.Reader) (*Level, error) {
	lvl := &Level{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if err := lvl.apply(fields[0], fields[1:]); err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read level: %w", err)
	}

	return lvl, nil
}

func (l *Level) apply(directive string, args []string) error {
	nums, err := parseNumbers(args)
	if err != nil {
		return err
	}

	switch directive {
	case "ball":
		if len(nums) != 2 {
			return fmt.Errorf("ball: %w", ErrArgumentCount)
		}
		l.Ball, l.HasBall = physics.Vec(nums[0], nums[1]), true
	case "pocket":
		if len(nums) != 2 && len(nums) != 3 {
			return fmt.Errorf("pocket: %w", ErrArgumentCount)
		}
		l.Pocket, l.HasPocket = physics.Vec(nums[0], nums[1]), true
		if len(nums) == 3 {
			if nums[2] <= 0 {
				return ErrBadPocketRadius
			}
			l.PocketRadius = nums[2]
		}
	case "edge":
		points, err := pairs(nums)
		if err != nil {
			return fmt.Errorf("edge: %w", err)
		}
		l.Boundary = append(l.Boundary, points...)
	case "obstacle":
		points, err := pairs(nums)
		if err != nil {
			return fmt.Errorf("obstacle: %w", err)
		}
		l.Obstacles = append(l.Obstacles, points)
	default:
		return fmt.Errorf("%w %q", ErrUnknownDirective, directive)
	}
	return nil
}

func parseNumbers(args []string) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w %q", ErrBadNumber, a)
		}
		nums[i] = v
	}
	return nums, nil
}

func pairs(nums []float64) ([]physics.Vector2D, error) {
	if len(nums) == 0 || len(nums)%2 != 0 {
		return nil, ErrArgumentCount
	}
	points := make([]physics.Vector2D, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		points = append(points, physics.Vec(nums[i], nums[i+1]))
	}
	return points, nil
}

// Load parses and validates the level file at path.
func Load(path string) (*Level, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open level file: %w", err)
	}
	defer file.Close()

	lvl, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// FileName returns the file name used for level n.
func FileName(n int) string {
	return fmt.Sprintf("level_%d.txt", n)
}

// LoadNumbered loads dir/level_<n>.txt.
func LoadNumbered(dir string, n int) (*Level, error) {
	lvl, err := Load(filepath.Join(dir, FileName(n)))
	if err != nil {
		return nil, err
	}
	lvl.Number = n
	return lvl, nil
}

// Count returns how many consecutively numbered levels, starting at 1,
// exist in dir.
func Count(dir string) int {
	n := 0
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName(n+1))); err != nil {
			return n
		}
		n++
	}
}
