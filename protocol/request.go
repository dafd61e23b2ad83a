package protocol

import (
	"bytes"
	"fmt"

	"github.com/nczempin/httpd-go-uring/errors"
)

// DefaultMaxPathLength bounds the request path when no limit is configured.
const DefaultMaxPathLength = 2048

// requestLine returns the first line of raw without its line terminator
func requestLine(raw []byte) []byte {
	line := raw
	if pos := bytes.IndexByte(raw, '\n'); pos >= 0 {
		line = raw[:pos]
	}
	return bytes.TrimSuffix(line, []byte("\r"))
}

func parseMethod(token []byte) HttpMethod {
	switch string(token) {
	case "GET":
		return MethodGet
	case "HEAD":
		return MethodHead
	default:
		return MethodUnknown
	}
}

// ParseRequest extracts the method and path from the request line in raw.
// An unrecognized method is not an error here; it comes back as MethodUnknown.
func ParseRequest(raw []byte, maxPath int) (*HttpRequest, error) {
	if maxPath <= 0 {
		maxPath = DefaultMaxPathLength
	}

	tokens := bytes.Fields(requestLine(raw))
	if len(tokens) < 2 {
		return nil, errors.NewRequestError(
			errors.RequestErrorMalformedRequest,
			"request line needs a method and a path",
		)
	}

	path := tokens[1]
	if path[0] != '/' {
		return nil, errors.NewRequestError(
			errors.RequestErrorMalformedRequest,
			fmt.Sprintf("path %q does not start with /", path),
		)
	}
	if len(path) > maxPath {
		return nil, errors.NewRequestError(
			errors.RequestErrorMalformedRequest,
			fmt.Sprintf("path of %d bytes exceeds limit of %d", len(path), maxPath),
		)
	}

	req := &HttpRequest{
		Method: parseMethod(tokens[0]),
		Path:   string(path),
	}
	if len(tokens) > 2 {
		req.Version = string(tokens[2])
	}
	return req, nil
}
