// Package hexdump renders process memory as offset / hex / ASCII lines with
// optional color, a highlighted byte range and hints for words that look like
// pointers into mapped memory.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"memstate/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

type Options struct {
	// BytesPerLine is 16 when unset
	BytesPerLine int

	// StartAddress labels the first byte
	StartAddress uint64

	Color bool

	// MarkOffset and MarkLen select bytes to highlight, such as the bytes a value is decoded from
	MarkOffset int
	MarkLen    int

	// MemoryMap enables pointer hints for 8-byte aligned words that land in a readable region
	MemoryMap []memory_map.MemoryMapItem
}

func DefaultOptions() Options {
	return Options{BytesPerLine: 16, Color: true}
}

// Dump formats data with the given options
func Dump(data []byte, o Options) string {
	var buf bytes.Buffer
	_ = Write(&buf, data, o)
	return buf.String()
}

// Write writes one line per BytesPerLine bytes of data
func Write(w io.Writer, data []byte, o Options) error {
	if o.BytesPerLine <= 0 {
		o.BytesPerLine = 16
	}

	for off := 0; off < len(data); off += o.BytesPerLine {
		end := min(off+o.BytesPerLine, len(data))
		if _, err := io.WriteString(w, o.line(data[off:end], off)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (o Options) line(data []byte, off int) string {
	var b strings.Builder

	b.WriteString(o.paint(coloransi.Cyan, fmt.Sprintf("%016x", o.StartAddress+uint64(off))))
	b.WriteString("  ")

	half := o.BytesPerLine / 2
	for i := 0; i < o.BytesPerLine; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		if half >= 4 && i == half {
			b.WriteString("| ")
		}
		if i >= len(data) {
			b.WriteString("  ")
			continue
		}
		b.WriteString(o.paint(o.byteColor(data[i], off+i), fmt.Sprintf("%02x", data[i])))
	}

	b.WriteString("  |")
	for i, c := range data {
		ch := "."
		if c >= 0x20 && c < 0x7f {
			ch = string(rune(c))
		}
		b.WriteString(o.paint(o.byteColor(c, off+i), ch))
	}
	b.WriteByte('|')

	for _, hint := range o.pointerHints(data) {
		b.WriteString(" " + o.paint(coloransi.Yellow, hint))
	}

	return b.String()
}

func (o Options) byteColor(c byte, pos int) coloransi.ColorCode {
	switch {
	case o.MarkLen > 0 && pos >= o.MarkOffset && pos < o.MarkOffset+o.MarkLen:
		return coloransi.BrightYellow
	case c == 0:
		return coloransi.BrightBlack
	}
	return coloransi.Green
}

func (o Options) paint(c coloransi.ColorCode, s string) string {
	if !o.Color {
		return s
	}
	return coloransi.Foreground(c, s)
}

func (o Options) pointerHints(data []byte) []string {
	if len(o.MemoryMap) == 0 {
		return nil
	}
	var hints []string
	for i := 0; i+8 <= len(data); i += 8 {
		ptr := binary.LittleEndian.Uint64(data[i:])
		if ptr == 0 {
			continue
		}
		if r := memory_map.FindRegion(ptr, o.MemoryMap); r != nil && r.IsReadable() {
			hints = append(hints, fmt.Sprintf("->0x%x", ptr))
		}
	}
	return hints
}
