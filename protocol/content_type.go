package protocol

import (
	"path"
	"strings"
)

// DefaultContentType is used for files without a known extension.
const DefaultContentType = "text/html"

var contentTypes = map[string]string{
	"css":  "text/css",
	"gif":  "image/gif",
	"htm":  "text/html",
	"html": "text/html",
	"ico":  "image/x-icon",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"js":   "application/javascript",
	"json": "application/json",
	"pdf":  "application/pdf",
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"swf":  "application/x-shockwave-flash",
	"txt":  "text/plain",
	"xml":  "text/xml",
}

// Extension returns the lower-cased text after the last dot of the final
// element of p, or "" if there is none.
func Extension(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

// ContentTypeFor maps a file path to its MIME type.
func ContentTypeFor(p string) string {
	if contentType, ok := contentTypes[Extension(p)]; ok {
		return contentType
	}
	return DefaultContentType
}
