package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary:
// 1. Strips UTF-8 BOM if present
// 2. Folds CRLF and lone-CR line endings to LF
// 3. Applies Unicode NFC normalization
//
// Lumen identifiers are restricted to `[A-Za-z_][A-Za-z0-9_]*`, so NFC only
// changes token boundaries inside string and interpolated-string literal
// content, never an identifier; it still has to run on the full source, not
// just literal spans, since the lexer slices literal text directly out of
// src by byte offset after this pass. Line-ending folding keeps line/column
// positions (and so error spans) identical across a CRLF checkout and an LF
// one of the same file.
//
// Examples:
//   - "café" in NFC vs NFD inside a string literal → identical token text
//   - "﻿ let x = 5" → " let x = 5" (only the BOM is stripped)
//   - "let x = 5\r\n" → "let x = 5\n" (CRLF folded)
//
// Normalization is performed once at input to avoid repeated processing.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	src = foldLineEndings(src)

	// IsNormal() is fast and avoids allocation if already normalized
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}

	return src
}

// foldLineEndings rewrites "\r\n" and lone "\r" to "\n", so the lexer's
// line/column bookkeeping (which only advances on "\n") sees the same
// positions regardless of the source file's line-ending convention.
func foldLineEndings(src []byte) []byte {
	if !bytes.ContainsRune(src, '\r') {
		return src
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	src = bytes.ReplaceAll(src, []byte("\r"), []byte("\n"))
	return src
}
