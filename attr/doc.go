// Package attr harvests display text from the metadata attached to a
// declaration.
//
// A declaration carries an ordered list of [Entry] values. Entries named
// "doc" hold documentation text; an entry named [MultiLineMarker] opts the
// declaration into relaxed multi-line mode. The package is independent of any
// host language: callers translate their own comment or attribute model into
// entries first.
//
// Processing happens in two steps:
//
//	mode := attr.Scan(entries)
//	doc, err := attr.Normalize(entries, mode)
//
// [Scan] never fails. [Normalize] returns nil when no doc entry is present,
// and fails with [ErrMultipleDocs] or [ErrMalformedDoc] when the entries
// cannot be turned into a single piece of display text.
//
// # Cleaning
//
// Doc text is cleaned line by line: surrounding whitespace is trimmed, then
// any leading run of '*' characters (block comment continuation), then
// whitespace again. Lines are rejoined with '\n' and the result is trimmed.
// For example, " * foo bar " becomes "foo bar".
package attr
