// Package artifact holds the naming and metadata conventions for
// generated-audio objects stored in the bucket.
//
// Objects live at keys of the form <prefix>/<uploadMillis>-<sanitizedName>.
// The identifier and source text of an artifact are attached as custom
// metadata; the text is stored twice (plain and base64) because metadata
// values choke on some unicode and quote characters. Objects written before
// metadata support existed carry nothing, so readers fall back to parsing
// the object name.
package artifact

import (
	"encoding/base64"
	"regexp"
	"strings"
)

// Custom metadata keys attached to every uploaded object.
const (
	MetaID           = "id"
	MetaText         = "text"
	MetaTextB64      = "text_b64"
	MetaOriginalName = "originalName"
)

var unsafeChars = regexp.MustCompile(`[^\w-]+`)

// SanitizeFilename replaces any run of characters outside [word, hyphen] in
// the base name with a single hyphen, leaving the extension untouched.
// Sanitizing an already-sanitized name is a no-op.
func SanitizeFilename(name string) string {
	base, ext := splitExtension(name)
	return unsafeChars.ReplaceAllString(base, "-") + ext
}

// StripExtension removes the final ".ext" suffix if one is present.
func StripExtension(name string) string {
	base, _ := splitExtension(name)
	return base
}

// splitExtension splits on the last dot, provided the suffix looks like a
// real extension (non-empty, no path separator, no further dot).
func splitExtension(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 || strings.ContainsAny(name[i+1:], "/.") {
		return name, ""
	}
	return name[:i], name[i:]
}

// DeriveIDFromObjectName recovers an artifact id from a key shaped like
// <prefix>/<timestamp>-<id>.<ext>: everything after the first hyphen of the
// last path segment, extension stripped. Names without the hyphen-delimited
// shape fall back to the whole stripped filename. Only used for objects
// written without explicit id metadata.
func DeriveIDFromObjectName(objectName string) string {
	name := objectName
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	_, rest, found := strings.Cut(name, "-")
	if !found || rest == "" {
		return StripExtension(name)
	}
	return StripExtension(rest)
}

// EncodeTextMetadata encodes a text label for safe storage in a metadata
// field.
func EncodeTextMetadata(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeTextMetadata reconstructs the text label for an object, preferring
// the base64 field, then the plain field, then the object's stripped
// filename.
func DecodeTextMetadata(meta map[string]string, objectName string) string {
	if b64 := meta[MetaTextB64]; b64 != "" {
		if raw, err := base64.StdEncoding.DecodeString(b64); err == nil {
			return string(raw)
		}
	}
	if text := meta[MetaText]; text != "" {
		return text
	}
	name := objectName
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return StripExtension(name)
}

// Metadata builds the custom metadata map for a new upload. Empty id/text are
// omitted entirely rather than written as empty values.
func Metadata(id, text, originalName string) map[string]string {
	m := map[string]string{MetaOriginalName: originalName}
	if id != "" {
		m[MetaID] = id
	}
	if text != "" {
		m[MetaText] = text
		m[MetaTextB64] = EncodeTextMetadata(text)
	}
	return m
}
