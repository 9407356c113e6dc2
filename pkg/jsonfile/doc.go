// Package jsonfile reads and writes the JSON configuration files monolink
// maintains (package.json, lerna.json, tsconfig.json).
//
// # Documents
//
// [Document] is an ordered JSON object. Top-level keys keep the order they
// were read in, and values are kept as raw JSON so nested objects keep their
// own key order. Only the fields a caller touches change on a round-trip:
//
//	doc, _ := jsonfile.Parse(data)
//	_ = doc.Set("references", refs)
//	out, _ := jsonfile.Encode(doc)
//
// # Encoding
//
// [Encode] pretty-prints with two-space indentation, never escapes HTML
// characters (so ">=18" stays ">=18"), and appends exactly one trailing
// newline.
//
// # Store
//
// [FileStore] implements [Store]. Writes go to a temporary file in the
// destination directory which is synced and renamed over the target, so a
// concurrent reader sees either the old or the new file, never a partial one.
package jsonfile
