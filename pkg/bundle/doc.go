// Package bundle reads and writes token bundles: zip archives holding every
// category of a token set.
//
// # Layout
//
//	brand.json
//	common.json
//	components/<name>.json   one file per component, in set order
//	custom-tokens.json       JSON array of custom token records
//	manifest.json            content hashes, optional on read
//
// Category files are nested token documents (see package nest) carrying the
// current values, overrides included. References are kept as written so the
// bundle can be edited and imported again.
//
// # Import
//
// [Read] accepts bundles written by [Write] and bundles produced by other
// tools with the same layout. Missing category files load as empty
// categories. Files exported by Token Studio in "multiple files" mode wrap
// each document in a single root key; set [ReadOptions.UnwrapRoot] to strip
// it.
//
// When a manifest is present each file's hash is checked and a mismatch is
// an error.
//
// [WriteFiles] writes the same layout to a directory instead of an archive.
package bundle
