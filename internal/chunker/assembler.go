package chunker

import (
	"github.com/dshills/docproc/internal/tokenizer"
)

// span is a half-open rune range [start, end) into the source text with the
// token count measured during assembly. Spans are internal to the chunker;
// callers only ever see the built DocumentChunk records.
type span struct {
	start  int
	end    int
	tokens int
}

// assembler walks the document once, producing ordered spans that honor the
// size, overlap, and minimum-size rules. It holds a single token counter for
// the whole pass so all size decisions use one consistent strategy.
type assembler struct {
	cfg     Config
	counter tokenizer.Counter
	bounds  *boundaryFinder
}

func newAssembler(cfg Config, counter tokenizer.Counter) *assembler {
	// Scan back at most half the chunk budget in heuristic characters.
	window := cfg.ChunkSize * tokenizer.CharsPerToken / 2
	return &assembler{
		cfg:     cfg,
		counter: counter,
		bounds:  newBoundaryFinder(window),
	}
}

func (a *assembler) count(runes []rune, start, end int) int {
	return a.counter.Count(string(runes[start:end]))
}

// assemble produces the ordered span list for the document. The final span
// is accepted regardless of its size; every earlier span ends either on a
// boundary or, in the documented worst case, a hard cut at the size limit.
func (a *assembler) assemble(runes []rune) []span {
	n := len(runes)
	if n == 0 {
		return nil
	}

	var spans []span
	pos := 0
	for pos < n {
		end := a.targetEnd(runes, pos)
		if end < n {
			end = a.snap(runes, pos, end)
		}
		spans = append(spans, span{start: pos, end: end, tokens: a.count(runes, pos, end)})
		if end >= n {
			break
		}
		pos = a.overlapStart(runes, end, pos)
	}
	return spans
}

// targetEnd finds the largest end offset whose token count does not exceed
// the chunk budget, growing a candidate window and then binary-searching
// within it. A single rune always fits, so the result is at least pos+1 and
// the cursor always makes forward progress.
func (a *assembler) targetEnd(runes []rune, pos int) int {
	n := len(runes)
	step := a.cfg.ChunkSize * tokenizer.CharsPerToken
	if step < 1 {
		step = 1
	}

	hi := pos + step
	if hi > n {
		hi = n
	}
	for hi < n && a.count(runes, pos, hi) <= a.cfg.ChunkSize {
		hi += step
		if hi > n {
			hi = n
		}
	}
	if hi == n && a.count(runes, pos, hi) <= a.cfg.ChunkSize {
		return n
	}

	lo := pos + 1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if a.count(runes, pos, mid) <= a.cfg.ChunkSize {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// snap moves the end offset backward to the best nearby boundary. The first
// pass only considers boundaries that keep the span at or above the minimum
// size; if none exist, any boundary below the size limit is accepted even
// when the span falls under the minimum (undersized interior chunks are not
// merged into neighbors; only the last chunk is exempt from the minimum).
// With no boundary in the window at all, the end offset stands: a hard cut
// mid-token, the documented worst case.
func (a *assembler) snap(runes []rune, pos, end int) int {
	minEnd := a.minEnd(runes, pos, end)
	if b, ok := a.bounds.find(runes, minEnd-1, end); ok {
		return b
	}
	if b, ok := a.bounds.find(runes, pos, end); ok {
		return b
	}
	return end
}

// minEnd finds the smallest end offset whose token count reaches the
// minimum chunk size, capped at end.
func (a *assembler) minEnd(runes []rune, pos, end int) int {
	if a.cfg.MinChunkSize <= 0 {
		return pos + 1
	}
	lo := pos + 1
	hi := end
	for lo < hi {
		mid := (lo + hi) / 2
		if a.count(runes, pos, mid) >= a.cfg.MinChunkSize {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// overlapStart computes where the next span begins: the smallest offset
// whose trailing region into end stays within the overlap budget, clamped
// so the cursor advances at least one rune past the previous span start
// (prevents infinite loops when overlap is configured close to chunk size).
func (a *assembler) overlapStart(runes []rune, end, prevStart int) int {
	if a.cfg.ChunkOverlap <= 0 {
		return end
	}
	lo := prevStart + 1
	hi := end
	for lo < hi {
		mid := (lo + hi) / 2
		if a.count(runes, mid, end) <= a.cfg.ChunkOverlap {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
