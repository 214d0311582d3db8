package ron

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rohanthewiz/ron/consts"
)

// Request is the read view of the HTTP request handed to matchers and
// clause bodies. ConsumedPath and RemainingPath together always rebuild
// the original Path - the pair is the dispatch's path cursor.
type Request interface {
	Method() string
	Scheme() string
	Host() string
	Path() string
	ConsumedPath() string
	RemainingPath() string
	Query() string
	Header(string) string
	QueryValue(string) string
	FormValue(string) string
	Body() []byte
}

// request represents the HTTP request used in the given context.
type request struct {
	scheme string
	host   string
	method string
	path   string // the original request path, never mutated
	query  string

	consumed  string // path prefix eaten by successful consuming matches
	remaining string // path still up for matching

	headers []Header
	body    []byte

	queryArgs       url.Values
	parsedQueryArgs bool
	postArgs        url.Values
	parsedPostArgs  bool
}

// Method returns the request method.
func (req *request) Method() string {
	return req.method
}

// Scheme returns either `http`, `https` or an empty string.
func (req *request) Scheme() string {
	return req.scheme
}

// Host returns the requested host (without the port).
func (req *request) Host() string {
	return req.host
}

// Path returns the full requested path.
func (req *request) Path() string {
	return req.path
}

// ConsumedPath returns the path prefix already claimed by matchers.
func (req *request) ConsumedPath() string {
	return req.consumed
}

// RemainingPath returns the part of the path no matcher has claimed yet.
func (req *request) RemainingPath() string {
	return req.remaining
}

// Query returns the raw query string.
func (req *request) Query() string {
	return req.query
}

// Header returns the header value for the given key.
// Header keys compare case-insensitively.
func (req *request) Header(key string) string {
	for _, header := range req.headers {
		if strings.EqualFold(header.Key, key) {
			return header.Value
		}
	}

	return ""
}

// QueryValue returns the query string value for the given key.
func (req *request) QueryValue(key string) string {
	req.parseQueryArgs()
	return req.queryArgs.Get(key)
}

// FormValue returns the value for the given key, looking in the query
// string first, then in an urlencoded request body.
func (req *request) FormValue(key string) string {
	if v := req.QueryValue(key); v != "" {
		return v
	}

	req.parsePostArgs()
	return req.postArgs.Get(key)
}

// Body returns the raw request body.
func (req *request) Body() []byte {
	return req.body
}

// cursor reports the current consumed/remaining decomposition so a clause
// can restore it after a failed attempt.
func (req *request) cursor() (consumed string, remaining string) {
	return req.consumed, req.remaining
}

// restoreCursor puts the path cursor back to an earlier decomposition.
func (req *request) restoreCursor(consumed string, remaining string) {
	req.consumed = consumed
	req.remaining = remaining
}

// consume tests re against the remaining path and, on a match, advances the
// cursor past the matched segment. re must come from compileSegment, so that
// group 1 spans the whole matched segment, inner groups are the caller's
// captures, and the final group is the segment terminator ("/" or end).
// The terminator stays on the remaining path, which keeps
// consumed + remaining equal to the original path at all times.
func (req *request) consume(re *regexp.Regexp) (vars []string, ok bool) {
	m := re.FindStringSubmatch(req.remaining)
	if m == nil {
		return nil, false
	}

	segment := m[1]
	req.consumed += "/" + segment
	req.remaining = req.remaining[len(segment)+1:]

	return m[2 : len(m)-1], true
}

func (req *request) parseQueryArgs() {
	if req.parsedQueryArgs {
		return
	}
	req.parsedQueryArgs = true

	req.queryArgs, _ = url.ParseQuery(req.query)
}

func (req *request) parsePostArgs() {
	if req.parsedPostArgs {
		return
	}
	req.parsedPostArgs = true

	contentType := strings.ToLower(req.Header(consts.HeaderContentType))
	if !strings.HasPrefix(contentType, consts.MIMEFormData) {
		return
	}
	req.postArgs, _ = url.ParseQuery(string(req.body))
}
