package worldfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/katalvlaran/siting/grid"
	"github.com/katalvlaran/siting/world"
)

// CityMarker is the only character that carries meaning in a row.
const CityMarker = 'P'

// ErrFormat is the sentinel every *FormatError unwraps to.
var ErrFormat = errors.New("worldfile: malformed world description")

// FormatError reports malformed input together with the offending line.
type FormatError struct {
	Line int // 1-based; 0 when the input is empty
	Msg  string
}

// Error implements error.
func (e *FormatError) Error() string {
	if e.Line == 0 {
		return "worldfile: " + e.Msg
	}
	return fmt.Sprintf("worldfile: line %d: %s", e.Line, e.Msg)
}

// Unwrap lets errors.Is(err, ErrFormat) match any *FormatError.
func (e *FormatError) Unwrap() error { return ErrFormat }

func formatErr(line int, format string, args ...any) error {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Spec is a decoded world description.
type Spec struct {
	Width      int
	Height     int
	Dispensers int
	Cities     []grid.Coordinate // row-major order
}

// Bounds returns the board geometry of s.
func (s Spec) Bounds() grid.Bounds {
	return grid.Bounds{Height: s.Height, Width: s.Width}
}

// Build constructs the World described by s, sampling initial dispenser
// positions from rng.
func (s Spec) Build(rng *rand.Rand) (*world.World, error) {
	return world.New(s.Width, s.Height, s.Cities, s.Dispensers, rng)
}

// ParseFile reads the world description stored at path.
func ParseFile(path string) (Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spec{}, fmt.Errorf("worldfile: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// ParseString parses a world description held in memory.
func ParseString(s string) (Spec, error) {
	return Parse(strings.NewReader(s))
}

// Parse decodes a world description from r.
//
// Complexity: O(W×H).
func Parse(r io.Reader) (Spec, error) {
	lines, err := readLines(r)
	if err != nil {
		return Spec{}, err
	}
	if len(lines) == 0 {
		return Spec{}, formatErr(0, "empty input")
	}

	spec, err := parseHeader(lines[0])
	if err != nil {
		return Spec{}, err
	}

	rows := lines[1:]
	if len(rows) < spec.Height {
		return Spec{}, formatErr(len(lines)+1, "expected %d rows, found %d", spec.Height, len(rows))
	}
	// Whitespace-only lines past the last row are padding, not cells.
	for k, extra := range rows[spec.Height:] {
		if strings.TrimSpace(extra) != "" {
			return Spec{}, formatErr(spec.Height+2+k, "unexpected row beyond height %d", spec.Height)
		}
	}

	var row int
	for row = 0; row < spec.Height; row++ {
		line := rows[row]
		if n := utf8.RuneCountInString(line); n != spec.Width {
			return Spec{}, formatErr(row+2, "row has %d cells, want %d", n, spec.Width)
		}
		col := 0
		for _, ch := range line {
			if ch == CityMarker {
				spec.Cities = append(spec.Cities, grid.Coordinate{Row: row, Col: col})
			}
			col++
		}
	}

	return spec, nil
}

// readLines returns every line of r without its terminator, with trailing
// empty lines removed. Rows are at least one cell wide, so an empty line
// can never be a row; a line of spaces can.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("worldfile: read: %w", err)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines, nil
}

// parseHeader decodes "{width}x{height} {dispensers}".
func parseHeader(line string) (Spec, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Spec{}, formatErr(1, "header %q: want \"{width}x{height} {dispensers}\"", line)
	}
	size := strings.Split(fields[0], "x")
	if len(size) != 2 {
		return Spec{}, formatErr(1, "size %q: want \"{width}x{height}\"", fields[0])
	}

	width, err := positive(size[0], "width")
	if err != nil {
		return Spec{}, err
	}
	height, err := positive(size[1], "height")
	if err != nil {
		return Spec{}, err
	}
	dispensers, err := positive(fields[1], "dispenser count")
	if err != nil {
		return Spec{}, err
	}

	return Spec{Width: width, Height: height, Dispensers: dispensers}, nil
}

func positive(tok, name string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, formatErr(1, "%s %q is not an integer", name, tok)
	}
	if n < 1 {
		return 0, formatErr(1, "%s must be positive, got %d", name, n)
	}
	return n, nil
}

// Format writes s in the format Parse reads.
//
// Returns world.ErrInvalidConfiguration if the board is degenerate or a
// city lies outside it.
func Format(w io.Writer, s Spec) error {
	if s.Width < 1 || s.Height < 1 || s.Dispensers < 1 {
		return fmt.Errorf("%w: cannot format %dx%d board with %d dispensers",
			world.ErrInvalidConfiguration, s.Width, s.Height, s.Dispensers)
	}
	b := s.Bounds()
	cells := make([]byte, b.Cells())
	for i := range cells {
		cells[i] = world.EmptyGlyph
	}
	for _, c := range s.Cities {
		if !b.Contains(c) {
			return fmt.Errorf("%w: city %v outside %dx%d grid", world.ErrInvalidConfiguration, c, s.Width, s.Height)
		}
		cells[b.Index(c)] = CityMarker
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%dx%d %d\n", s.Width, s.Height, s.Dispensers)
	var r int
	for r = 0; r < s.Height; r++ {
		bw.Write(cells[r*s.Width : (r+1)*s.Width])
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
