package draw

import (
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"golang.org/x/term"
)

// packetSize bounds a single write so SSH channels see steady, small packets.
const packetSize = 1400

// Synchronized update markers. Terminals that support them hold the screen
// until the end marker arrives; others ignore them.
const (
	syncBegin = "\033[?2026h"
	syncEnd   = "\033[?2026l"
)

// FrameWriter collects one frame of terminal output and sends it as a single
// synchronized update. Positions are 1-based cells of the play area: Place
// puts the area inside the terminal, and text falling outside it is clipped.
// Implements io.Writer for Canvas.Render.
type FrameWriter struct {
	out    io.Writer
	buf    []byte // Always starts with syncBegin
	offCol int
	offRow int
	width  int // Clip area in cells; 0 disables clipping
	height int
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	fw := &FrameWriter{out: w, buf: make([]byte, 0, 8192)}
	fw.reset()
	return fw
}

// Place sets the terminal offset and the size of the play area, e.g. after a resize.
func (fw *FrameWriter) Place(offsetCol, offsetRow, width, height int) {
	fw.offCol = offsetCol
	fw.offRow = offsetRow
	fw.width = width
	fw.height = height
}

func (fw *FrameWriter) reset() {
	fw.buf = append(fw.buf[:0], syncBegin...)
}

func (fw *FrameWriter) moveTo(col, row int) {
	fw.buf = append(fw.buf, "\033["...)
	fw.buf = strconv.AppendInt(fw.buf, int64(row+fw.offRow), 10)
	fw.buf = append(fw.buf, ';')
	fw.buf = strconv.AppendInt(fw.buf, int64(col+fw.offCol), 10)
	fw.buf = append(fw.buf, 'H')
}

// Write appends raw output with absolute cursor positions.
func (fw *FrameWriter) Write(p []byte) (n int, err error) {
	fw.buf = append(fw.buf, p...)
	return len(p), nil
}

var _ io.Writer = (*FrameWriter)(nil)

// Text writes s starting at (col, row).
func (fw *FrameWriter) Text(col, row int, s string) {
	fw.text(col, row, "", s)
}

// ColoredText writes s starting at (col, row) in color c and resets attributes afterwards.
func (fw *FrameWriter) ColoredText(col, row int, c Color, s string) {
	fw.text(col, row, c.Code(), s)
}

func (fw *FrameWriter) text(col, row int, code, s string) {
	s, col = fw.clip(col, row, s)
	if s == "" {
		return
	}
	fw.moveTo(col, row)
	if code != "" {
		fw.buf = append(fw.buf, code...)
	}
	fw.buf = append(fw.buf, s...)
	if code != "" {
		fw.buf = append(fw.buf, ColorReset...)
	}
}

// clip trims s to the runes inside the play area and returns the column of the first one.
func (fw *FrameWriter) clip(col, row int, s string) (string, int) {
	for col < 1 && s != "" {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		col++
	}
	if fw.width <= 0 || fw.height <= 0 {
		return s, col
	}
	if row < 1 || row > fw.height || col > fw.width {
		return "", col
	}
	room := fw.width - col + 1
	i := 0
	for n := 0; n < room && i < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], col
}

// Len returns the number of buffered bytes of the current frame.
func (fw *FrameWriter) Len() int {
	return len(fw.buf) - len(syncBegin)
}

// Flush sends the frame in packets and starts the next one. A frame with
// nothing in it writes nothing.
func (fw *FrameWriter) Flush() error {
	if fw.Len() == 0 {
		return nil
	}
	fw.buf = append(fw.buf, syncEnd...)
	defer fw.reset()

	data := fw.buf
	for len(data) > 0 {
		n := min(len(data), packetSize)
		if _, err := fw.out.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// CenterCol returns the 1-based column that centers s in a row of width cells.
// Text wider than the row starts left of it and is clipped on both sides.
func CenterCol(width int, s string) int {
	return (width-utf8.RuneCountInString(s))/2 + 1
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterScreen switches to the alternate screen, hides the cursor and clears.
func EnterScreen(w io.Writer) {
	io.WriteString(w, "\033[?1049h\033[?25l\033[H\033[2J")
}

// LeaveScreen restores the cursor and the screen the game started from.
func LeaveScreen(w io.Writer) {
	io.WriteString(w, "\033[0m\033[?25h\033[?1049l")
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, "\033[H\033[2J")
}
