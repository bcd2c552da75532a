package input

// Buffer is a single-line edit buffer with a caret. The zero value is an
// empty buffer ready for use.
type Buffer struct {
	content []rune
	caret   int
}

// Insert places r at the caret and advances it.
func (b *Buffer) Insert(r rune) {
	b.content = append(b.content, 0)
	copy(b.content[b.caret+1:], b.content[b.caret:])
	b.content[b.caret] = r
	b.caret++
}

// InsertString inserts every rune of s at the caret.
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

// Backspace deletes the rune before the caret. It is a no-op on an empty
// buffer or with the caret at the start.
func (b *Buffer) Backspace() {
	if b.caret == 0 {
		return
	}
	b.content = append(b.content[:b.caret-1], b.content[b.caret:]...)
	b.caret--
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.content = b.content[:0]
	b.caret = 0
}

// Left moves the caret one rune to the left.
func (b *Buffer) Left() {
	if b.caret > 0 {
		b.caret--
	}
}

// Right moves the caret one rune to the right.
func (b *Buffer) Right() {
	if b.caret < len(b.content) {
		b.caret++
	}
}

// Snapshot returns the current content.
func (b *Buffer) Snapshot() string {
	return string(b.content)
}

// Caret returns the caret position in runes.
func (b *Buffer) Caret() int {
	return b.caret
}

// Len returns the content length in runes.
func (b *Buffer) Len() int {
	return len(b.content)
}
