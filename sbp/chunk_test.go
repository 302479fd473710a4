package sbp

import "testing"

func TestChunkEmitAndText(t *testing.T) {
	c := NewChunk(3)
	if !c.Empty() {
		t.Fatal("new chunk should be empty")
	}
	c.Emit("G1 X1")
	c.Emit("G1 Y2")
	if c.Empty() {
		t.Fatal("chunk with content should not be empty")
	}
	if got, want := c.Text(), "G1 X1\nG1 Y2"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if c.StartLine() != 3 {
		t.Errorf("StartLine() = %d, want 3", c.StartLine())
	}
}

func TestChunkReset(t *testing.T) {
	c := NewChunk(1)
	c.Emit("G1 X1")
	c.Reset(5)
	if !c.Empty() {
		t.Error("chunk should be empty after Reset")
	}
	if c.StartLine() != 5 {
		t.Errorf("StartLine() after Reset = %d, want 5", c.StartLine())
	}
}
