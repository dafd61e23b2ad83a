package protocol

// HttpMethod represents HTTP request methods
type HttpMethod int

const (
	MethodUnknown HttpMethod = iota
	MethodGet
	MethodHead
)

func (m HttpMethod) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	default:
		return "UNKNOWN"
	}
}

// HttpHeader represents an HTTP header key-value pair
type HttpHeader struct {
	Key   string
	Value string
}

// HttpRequest is the parsed request line of one connection.
// Headers that follow the request line are not kept.
type HttpRequest struct {
	Method  HttpMethod
	Path    string
	Version string
}

// HttpResponse represents an HTTP/1.0 response ready for serialization
type HttpResponse struct {
	StatusCode    int
	StatusMessage string
	Headers       []HttpHeader
	Body          []byte
	// SuppressBody keeps the body out of the wire form while Content-Length
	// still reports its size (HEAD).
	SuppressBody bool
}

// HttpResponseHead is a parsed response header block
type HttpResponseHead struct {
	StatusCode    int
	StatusMessage string
	Headers       []HttpHeader
	ContentType   string
	ContentLength int
	HeaderSize    int
}

const (
	StatusOK               = 200
	StatusNotFound         = 404
	StatusMethodNotAllowed = 405
)

// StatusText returns the reason phrase for the status codes the server emits.
func StatusText(code int) string {
	switch code {
	case StatusOK:
		return "OK"
	case StatusNotFound:
		return "Not Found"
	case StatusMethodNotAllowed:
		return "Method Not Allowed"
	default:
		return ""
	}
}
