package protocol

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nczempin/httpd-go-uring/errors"
)

const (
	httpVersion      = "HTTP/1.0"
	contentTypeKey   = "Content-Type"
	contentLengthKey = "Content-Length"
)

var (
	crlf            = []byte("\r\n")
	headerSeparator = []byte("\r\n\r\n")
)

// NewResponse builds a response whose Content-Length is the exact byte
// length of body, whether or not the body is suppressed.
func NewResponse(status int, contentType string, body []byte, suppressBody bool) *HttpResponse {
	return &HttpResponse{
		StatusCode:    status,
		StatusMessage: StatusText(status),
		Headers: []HttpHeader{
			{Key: contentTypeKey, Value: contentType},
			{Key: contentLengthKey, Value: strconv.Itoa(len(body))},
		},
		Body:         body,
		SuppressBody: suppressBody,
	}
}

// AppendTo appends the wire form of the response to dst
func (r *HttpResponse) AppendTo(dst []byte) []byte {
	// Status line
	dst = append(dst, httpVersion...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(r.StatusCode), 10)
	dst = append(dst, ' ')
	dst = append(dst, r.StatusMessage...)
	dst = append(dst, crlf...)

	// Headers
	for _, header := range r.Headers {
		dst = append(dst, header.Key...)
		dst = append(dst, ": "...)
		dst = append(dst, header.Value...)
		dst = append(dst, crlf...)
	}

	// Blank line
	dst = append(dst, crlf...)

	if !r.SuppressBody {
		dst = append(dst, r.Body...)
	}
	return dst
}

// Bytes returns the wire form of the response
func (r *HttpResponse) Bytes() []byte {
	size := len(httpVersion) + 64
	for _, header := range r.Headers {
		size += len(header.Key) + len(header.Value) + 4
	}
	if !r.SuppressBody {
		size += len(r.Body)
	}
	return r.AppendTo(make([]byte, 0, size))
}

// Header returns the value of the first header named key.
func (r *HttpResponse) Header(key string) (string, bool) {
	return findHeader(r.Headers, key)
}

func findHeader(headers []HttpHeader, key string) (string, bool) {
	for _, header := range headers {
		if strings.EqualFold(header.Key, key) {
			return header.Value, true
		}
	}
	return "", false
}

// ParseResponseHead parses the status line and headers of a serialized
// response. The body, if any, starts at HeaderSize.
func ParseResponseHead(buf []byte) (*HttpResponseHead, error) {
	pos := bytes.Index(buf, headerSeparator)
	if pos < 0 {
		return nil, errors.NewInvalidArgumentError("no header separator found")
	}
	headerSize := pos + len(headerSeparator)
	headersBlock := buf[:pos]

	// Split into status line and rest of headers
	parts := bytes.SplitN(headersBlock, crlf, 2)
	statusLine := parts[0]

	// Parse status line: "HTTP/1.0 200 OK"
	statusParts := bytes.SplitN(statusLine, []byte(" "), 3)
	if len(statusParts) < 2 {
		return nil, errors.NewInvalidArgumentError("invalid status line format")
	}

	statusCode, err := strconv.Atoi(string(statusParts[1]))
	if err != nil {
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("invalid status code: %s", statusParts[1]))
	}

	head := &HttpResponseHead{
		StatusCode:    statusCode,
		ContentLength: -1,
		HeaderSize:    headerSize,
	}
	if len(statusParts) >= 3 {
		head.StatusMessage = string(statusParts[2])
	}

	if len(parts) > 1 {
		for _, line := range bytes.Split(parts[1], crlf) {
			if len(line) == 0 {
				break
			}

			headerParts := bytes.SplitN(line, []byte(":"), 2)
			if len(headerParts) == 2 {
				head.Headers = append(head.Headers, HttpHeader{
					Key:   string(headerParts[0]),
					Value: strings.TrimSpace(string(headerParts[1])),
				})
			}
		}
	}

	if contentType, ok := findHeader(head.Headers, contentTypeKey); ok {
		head.ContentType = contentType
	}
	if value, ok := findHeader(head.Headers, contentLengthKey); ok {
		length, err := strconv.Atoi(value)
		if err != nil || length < 0 {
			return nil, errors.NewInvalidArgumentError(fmt.Sprintf("invalid content length: %s", value))
		}
		head.ContentLength = length
	}

	return head, nil
}
