package sbp

import "strings"

// Chunk accumulates G-code lines emitted by non-breaking statements between
// two driver round trips (§4.4). It is flushed as a single newline-joined
// segment whenever execution reaches a breaking statement, and its starting
// program line is recorded so status events reporting a G-code line number
// can be remapped back to the originating OpenSBP line (§4.7, Status.Merge).
type Chunk struct {
	lines      []string
	startLine  int
	hasContent bool
}

// NewChunk returns an empty chunk anchored at startLine, the OpenSBP source
// line of the first statement that will contribute G-code to it.
func NewChunk(startLine int) *Chunk {
	return &Chunk{startLine: startLine}
}

// Emit appends a G-code line to the chunk.
func (c *Chunk) Emit(line string) {
	c.lines = append(c.lines, line)
	c.hasContent = true
}

// Empty reports whether the chunk has accumulated any G-code yet. An empty
// chunk must not be submitted to the driver, and a breaking statement
// following one must not await a state transition for it (§4.4, §4.6 "flush
// is skipped, and no AwaitState call is made, when the chunk is empty").
func (c *Chunk) Empty() bool {
	return !c.hasContent
}

// StartLine returns the OpenSBP source line the chunk is anchored at.
func (c *Chunk) StartLine() int {
	return c.startLine
}

// Text joins the accumulated lines with newlines (no trailing newline) into
// the segment
// submitted to Driver.RunSegment (§4.4, §6).
func (c *Chunk) Text() string {
	return strings.Join(c.lines, "\n")
}

// Reset clears the chunk's contents and re-anchors it at startLine, ready to
// accumulate the next run of non-breaking statements.
func (c *Chunk) Reset(startLine int) {
	c.lines = c.lines[:0]
	c.startLine = startLine
	c.hasContent = false
}
