// Package codec converts records and the profile registry to and from bytes.
//
// A record is stored as a parallel-array document
//
//	{"keys":["Level"],"values":["5"],"types":["Int32"]}
//
// where each value is rendered as text under a type tag. Scalars use
// locale-invariant decimal text; Vec2, Vec3, Color and timestamps are nested
// JSON objects ({"x":..,"y":..}, {"r":..,"g":..,"b":..,"a":..}, {"ticks":..}).
//
// Decoding is lenient per entry: a value that fails to parse is replaced by
// its type default and reported as an EntryError, and the rest of the record
// still loads. Only a document that cannot be parsed at all is an error.
//
// Codec wraps the plaintext document in the crypto envelope for on-disk use;
// the Export/Import helpers produce the unencrypted JSON or YAML form.
package codec
