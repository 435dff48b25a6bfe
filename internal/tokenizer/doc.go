// Package tokenizer estimates or counts how many model tokens a text span
// consumes.
//
// Two strategies are available:
//
//   - heuristic: one token per ~4 characters, no tokenizer data required
//   - tiktoken: exact BPE counts via a named encoding (default cl100k_base)
//
// The strategy is part of the chunking configuration so callers can choose
// deterministic exact counts or the cheap approximation. Whichever counter
// is selected must be used consistently within one chunking pass; the
// chunker holds a single Counter for the duration of a call.
//
//	counter, err := tokenizer.New(tokenizer.StrategyTiktoken, tokenizer.DefaultEncoding)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n := counter.Count("some text")
//
// Counters are pure and safe for concurrent use. The tiktoken encoding is
// loaded once at construction (load-once, use-many).
package tokenizer
