// Package extractor converts documents of several formats into plain text
// suitable for chunking.
//
// Each format variant has its own Extractor; Registry dispatches by file
// extension, with unknown extensions falling back to plain text. Extraction
// never interprets content beyond the format itself: no OCR runs unless an
// OCRClient is provided, and undecodable PDF pages are skipped and counted
// in the result metadata.
package extractor
