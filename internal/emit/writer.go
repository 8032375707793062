// Package emit provides the append-only text sink used while lowering the syntax tree to Koopa IR text.
//
// The sink has two states, live and muted. Structured lowering of if/while/break/continue/return emits code
// in straight-line order, which means a dead tail can follow a terminator (ret/jump/br) before the next basic
// block label is known to the lowerer. Rather than rewriting the emitted instruction tree to drop that tail,
// the Writer is muted immediately after a terminator is written and writes are silently discarded until the
// next basic block label is opened. This mirrors util/io.go's channel-fed strings.Builder buffer from the
// teacher compiler, generalized with the live/muted latch spec.md requires.
package emit

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Writer is an append-only text sink with a muted mode.
type Writer struct {
	sb    strings.Builder
	muted bool
}

// ---------------------
// ----- Functions -----
// ---------------------

// New returns a ready to use Writer in the live state.
func New() *Writer {
	return &Writer{}
}

// Muted reports whether the Writer is currently discarding writes.
func (w *Writer) Muted() bool {
	return w.muted
}

// Mute latches the Writer into the muted state. Called immediately after a terminator (ret/jump/br) is
// written.
func (w *Writer) Mute() {
	w.muted = true
}

// Label opens a new basic block: it unconditionally unmutes the Writer (a fresh label always starts live
// code) and writes the label line.
func (w *Writer) Label(name string) {
	w.muted = false
	w.sb.WriteString(name)
	w.sb.WriteString(":\n")
}

// Printf writes a formatted line to the buffer unless the Writer is muted.
func (w *Writer) Printf(format string, args ...interface{}) {
	if w.muted {
		return
	}
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

// WriteString writes a plain string to the buffer unless the Writer is muted.
func (w *Writer) WriteString(s string) {
	if w.muted {
		return
	}
	w.sb.WriteString(s)
}

// String returns the buffered text regardless of mute state; mute only suppresses future writes, it never
// retroactively deletes what is already buffered (there is nothing buffered from a muted write in the first
// place).
func (w *Writer) String() string {
	return w.sb.String()
}

// Len returns the number of bytes currently buffered.
func (w *Writer) Len() int {
	return w.sb.Len()
}
