// Package format translates between the legacy bitmask pixel format
// descriptions and the modern API's enumerated formats.
//
// The translation is table driven. [ToLegacy] returns the canonical
// description of a format and [ToModern] resolves any description the
// table produces back to the same format, so every supported format
// round-trips. Descriptions with no modern equivalent resolve to
// [Unknown]; callers choose the fallback.
//
// [ExpandRow] converts uncompressed rows to RGBA8 for backends and
// tools that only handle that layout.
package format
