package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestHexColor(t *testing.T) {
	tests := []struct {
		hex  string
		want Color
	}{
		{"#ffffff", ColorWhite},
		{"#ff0000", ColorRed},
		{"#00ffff", ColorCyan},
		{"#ffff00", ColorYellow},
		{"#ffaa00", ColorOrange},
		{"#0099ff", ColorBlue},
		{"ff0000", ColorRed},
		{"#zzzzzz", ColorWhite},
		{"#fff", ColorWhite},
	}
	for _, tt := range tests {
		if got := HexColor(tt.hex); got != tt.want {
			t.Errorf("HexColor(%q) = %d, want %d", tt.hex, got, tt.want)
		}
	}
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)

	var first bytes.Buffer
	c.SetFloat(0, 0, ColorRed)
	if err := c.Render(&first); err != nil {
		t.Fatal(err)
	}
	if !strings.ContainsRune(first.String(), BlockUpperHalf) {
		t.Fatalf("first frame %q lacks the upper half block", first.String())
	}
	if !strings.Contains(first.String(), ColorRed.Code()) {
		t.Fatalf("first frame %q lacks the red color code", first.String())
	}

	var second bytes.Buffer
	c.Clear()
	c.SetFloat(0, 0, ColorRed)
	if err := c.Render(&second); err != nil {
		t.Fatal(err)
	}
	if second.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", second.String())
	}

	var third bytes.Buffer
	c.Clear()
	c.SetFloat(0, 1, ColorRed)
	c.SetFloat(0, 0, ColorRed)
	if err := c.Render(&third); err != nil {
		t.Fatal(err)
	}
	if !strings.ContainsRune(third.String(), BlockFull) {
		t.Fatalf("frame %q lacks the full block", third.String())
	}
	if strings.Count(third.String(), "\033[1;") != 1 {
		t.Fatalf("expected a single repainted cell, got %q", third.String())
	}
}

func TestMarkDirtyRepaints(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var buf bytes.Buffer
	c.Render(&buf)

	buf.Reset()
	c.MarkDirty(2, 1, 2)
	c.Render(&buf)
	if got := strings.Count(buf.String(), " "); got != 2 {
		t.Fatalf("repainted %d blank cells, want 2: %q", got, buf.String())
	}
}

func TestFillPolygonCoversInterior(t *testing.T) {
	c := NewScaledCanvas(20, 10, 20, 20)
	c.DrawPolygon([]Point{{2, 2}, {18, 2}, {18, 18}, {2, 18}}, true, ColorCyan)

	if got := c.pixels[10*c.termWidth+10]; got != ColorCyan {
		t.Fatalf("center pixel = %d, want cyan", got)
	}
	if got := c.pixels[0]; got != ColorNone {
		t.Fatalf("corner pixel = %d, want unset", got)
	}
}

func TestFillRectAlwaysCoversAPixel(t *testing.T) {
	c := NewScaledCanvas(10, 5, 1000, 1000)
	c.FillRect(500, 500, 1, 1, ColorYellow)

	n := 0
	for _, p := range c.pixels {
		if p == ColorYellow {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("tiny rect set %d pixels, want 1", n)
	}
}

func TestFitArea(t *testing.T) {
	tests := []struct {
		name                         string
		termW, termH, maxW, maxH     int
		wantW, wantH, wantOC, wantOR int
	}{
		{"wide terminal", 200, 40, 400, 200, 142, 40, 29, 0},
		{"tall terminal", 80, 60, 400, 200, 80, 22, 0, 19},
		{"capped", 400, 200, 150, 50, 150, 42, 125, 79},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, oc, or := FitArea(tt.termW, tt.termH, tt.maxW, tt.maxH, 1920, 1080)
			if w != tt.wantW || h != tt.wantH || oc != tt.wantOC || or != tt.wantOR {
				t.Fatalf("FitArea = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					w, h, oc, or, tt.wantW, tt.wantH, tt.wantOC, tt.wantOR)
			}
		})
	}
}

func TestFrameWriterOffsets(t *testing.T) {
	var out bytes.Buffer
	fw := NewFrameWriter(&out)
	fw.Place(3, 2, 0, 0)
	fw.Text(1, 1, "hi")
	if err := fw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), syncBegin+"\033[3;4Hhi"+syncEnd; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if fw.Len() != 0 {
		t.Fatal("buffer not reset after flush")
	}

	out.Reset()
	if err := fw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("empty frame wrote %q", out.String())
	}
}

func TestFrameWriterClipsText(t *testing.T) {
	tests := []struct {
		name     string
		col, row int
		text     string
		want     string
	}{
		{"inside", 2, 1, "ab", "\033[1;2Hab"},
		{"right edge", 4, 2, "hello", "\033[2;4Hhe"},
		{"left edge", -1, 2, "hello", "\033[2;1Hllo"},
		{"multibyte", 4, 3, "╔══╗", "\033[3;4H╔═"},
		{"below", 1, 4, "x", ""},
		{"above", 1, 0, "x", ""},
		{"past right", 6, 1, "x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			fw := NewFrameWriter(&out)
			fw.Place(0, 0, 5, 3)
			fw.Text(tt.col, tt.row, tt.text)
			if err := fw.Flush(); err != nil {
				t.Fatal(err)
			}
			want := ""
			if tt.want != "" {
				want = syncBegin + tt.want + syncEnd
			}
			if got := out.String(); got != want {
				t.Fatalf("output = %q, want %q", got, want)
			}
		})
	}
}

func TestFrameWriterColoredText(t *testing.T) {
	var out bytes.Buffer
	fw := NewFrameWriter(&out)
	fw.ColoredText(1, 1, ColorRed, "go")
	if err := fw.Flush(); err != nil {
		t.Fatal(err)
	}
	if want := "\033[1;1H" + ColorRed.Code() + "go" + ColorReset; !strings.Contains(out.String(), want) {
		t.Fatalf("output = %q, want it to contain %q", out.String(), want)
	}
}

type packetRecorder struct {
	packets [][]byte
}

func (r *packetRecorder) Write(p []byte) (int, error) {
	r.packets = append(r.packets, append([]byte(nil), p...))
	return len(p), nil
}

func TestFrameWriterSplitsPackets(t *testing.T) {
	rec := &packetRecorder{}
	fw := NewFrameWriter(rec)
	body := strings.Repeat("x", 3*packetSize)
	if _, err := fw.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := fw.Flush(); err != nil {
		t.Fatal(err)
	}

	var all []byte
	for i, p := range rec.packets {
		if len(p) > packetSize {
			t.Fatalf("packet %d has %d bytes, limit %d", i, len(p), packetSize)
		}
		all = append(all, p...)
	}
	if string(all) != syncBegin+body+syncEnd {
		t.Fatal("packets do not reassemble into the frame")
	}
}

func TestCenterCol(t *testing.T) {
	if got := CenterCol(10, "abcd"); got != 4 {
		t.Fatalf("CenterCol = %d, want 4", got)
	}
	if got := CenterCol(2, "abcdef"); got != -1 {
		t.Fatalf("CenterCol = %d, want -1", got)
	}
}
