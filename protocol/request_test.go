package protocol

import (
	"strings"
	"testing"

	"github.com/nczempin/httpd-go-uring/errors"
)

func TestParseRequest_Success(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		method  HttpMethod
		path    string
		version string
	}{
		{"get root", "GET / HTTP/1.0\r\n\r\n", MethodGet, "/", "HTTP/1.0"},
		{"head file", "HEAD /style.css HTTP/1.0\r\nHost: x\r\n\r\n", MethodHead, "/style.css", "HTTP/1.0"},
		{"bare newline", "GET /a.txt HTTP/1.0\n\n", MethodGet, "/a.txt", "HTTP/1.0"},
		{"no version", "GET /index.html", MethodGet, "/index.html", ""},
		{"extra spaces", "GET   /x    HTTP/1.0\r\n", MethodGet, "/x", "HTTP/1.0"},
		{"tabs", "HEAD\t/x\tHTTP/1.0\r\n", MethodHead, "/x", "HTTP/1.0"},
		{"unknown method", "POST /form HTTP/1.0\r\n\r\n", MethodUnknown, "/form", "HTTP/1.0"},
		{"lower case method", "get / HTTP/1.0\r\n", MethodUnknown, "/", "HTTP/1.0"},
		{"query kept verbatim", "GET /a%20b?x=1 HTTP/1.0\r\n", MethodGet, "/a%20b?x=1", "HTTP/1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.raw), 0)
			if err != nil {
				t.Fatalf("ParseRequest failed: %v", err)
			}
			if req.Method != tt.method {
				t.Errorf("Expected method %v, got %v", tt.method, req.Method)
			}
			if req.Path != tt.path {
				t.Errorf("Expected path %q, got %q", tt.path, req.Path)
			}
			if req.Version != tt.version {
				t.Errorf("Expected version %q, got %q", tt.version, req.Version)
			}
		})
	}
}

func TestParseRequest_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"blank line", "\r\n"},
		{"method only", "GET\r\n\r\n"},
		{"path on second line", "GET\r\n/ HTTP/1.0\r\n"},
		{"relative path", "GET index.html HTTP/1.0\r\n"},
		{"absolute uri", "GET http://example.com/ HTTP/1.0\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.raw), 0)
			if err == nil {
				t.Fatalf("Expected error, got request %+v", req)
			}
			if !errors.IsRequest(err, errors.RequestErrorMalformedRequest) {
				t.Errorf("Expected MalformedRequest, got %v", err)
			}
		})
	}
}

func TestParseRequest_PathTooLong(t *testing.T) {
	path := "/" + strings.Repeat("a", 31)

	if _, err := ParseRequest([]byte("GET "+path+" HTTP/1.0\r\n"), 32); err != nil {
		t.Fatalf("Path at the limit should parse: %v", err)
	}

	_, err := ParseRequest([]byte("GET "+path+"b HTTP/1.0\r\n"), 32)
	if !errors.IsRequest(err, errors.RequestErrorMalformedRequest) {
		t.Errorf("Expected MalformedRequest for long path, got %v", err)
	}
}

func TestParseRequest_DefaultLimit(t *testing.T) {
	path := "/" + strings.Repeat("a", DefaultMaxPathLength)

	_, err := ParseRequest([]byte("GET "+path+" HTTP/1.0\r\n"), 0)
	if !errors.IsRequest(err, errors.RequestErrorMalformedRequest) {
		t.Errorf("Expected default limit to apply, got %v", err)
	}
}

func TestHttpMethod_String(t *testing.T) {
	if MethodGet.String() != "GET" || MethodHead.String() != "HEAD" || MethodUnknown.String() != "UNKNOWN" {
		t.Error("Unexpected method names")
	}
}
