package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// SRT writes one subtitle cue per paragraph.
func SRT(paragraphs []transcript.Paragraph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	index := 0
	for _, p := range paragraphs {
		text := cleanMarkdownInline(render.CleanFillers(p.Text))
		if text == "" {
			continue
		}
		end := p.End
		if end <= p.Start {
			end = p.Start + 1
		}
		index++
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", index, srtTime(p.Start), srtTime(end), text)
	}
	return bw.Flush()
}

// srtTime formats seconds as HH:MM:SS,mmm.
func srtTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	s := (ms % 60_000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}
