package chunker

import "unicode"

// boundaryFinder locates the best split point at or before a target offset.
// Offsets are rune indexes into the document. The backward scan is bounded
// by window runes so boundary search stays O(window) per chunk regardless
// of document length.
type boundaryFinder struct {
	window int
}

func newBoundaryFinder(window int) *boundaryFinder {
	if window < minBoundaryWindow {
		window = minBoundaryWindow
	}
	return &boundaryFinder{window: window}
}

// minBoundaryWindow keeps the scan useful for tiny chunk sizes
const minBoundaryWindow = 64

// find returns the best boundary offset in (lo, hi], scanning each priority
// class backward from hi:
//
//  1. paragraph break (two or more consecutive newlines)
//  2. sentence terminator (. ! ?) followed by whitespace
//  3. single newline
//  4. word boundary (whitespace)
//
// The returned offset falls just after the boundary characters, so a chunk
// ending at the boundary keeps its trailing whitespace and concatenation
// reconstructs the source exactly. The second return is false when no
// boundary exists in the window; callers then hard-cut at hi.
func (b *boundaryFinder) find(runes []rune, lo, hi int) (int, bool) {
	if floor := hi - b.window; lo < floor {
		lo = floor
	}
	if lo < 0 {
		lo = 0
	}

	// Paragraph break
	for i := hi; i > lo; i-- {
		if runes[i-1] == '\n' && i >= 2 && runes[i-2] == '\n' {
			return i, true
		}
	}

	// Sentence terminator followed by whitespace; split after the whitespace
	for i := hi; i > lo; i-- {
		if isSpace(runes[i-1]) && i >= 2 && isSentenceEnd(runes[i-2]) {
			return i, true
		}
	}

	// Single newline
	for i := hi; i > lo; i-- {
		if runes[i-1] == '\n' {
			return i, true
		}
	}

	// Word boundary
	for i := hi; i > lo; i-- {
		if isSpace(runes[i-1]) {
			return i, true
		}
	}

	return hi, false
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
