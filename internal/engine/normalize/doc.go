// Package normalize cleans text before it enters a document.
//
// Every path that puts text into a buffer (file load, paste, typed input)
// runs it through the same transform chain:
//
//  1. invalid UTF-8 sequences become U+FFFD
//  2. CRLF and lone CR become LF
//  3. each tab becomes four spaces
//  4. invisible and bidi-control code points on the deny list are removed
//
// The chain never fails and is idempotent: normalizing already normalized
// text returns it unchanged.
//
// Basic usage:
//
//	text := normalize.String("line1\r\n\tline2") // "line1\n    line2"
//
//	text, report := normalize.Bytes(raw)
//	if report.Replaced > 0 {
//	    logger.Warn("invalid UTF-8 replaced", zap.Int("count", report.Replaced))
//	}
package normalize
