package ron

import (
	"strings"

	"github.com/rohanthewiz/ron/consts"
)

// parseURL parses a URL and returns the scheme, host, path and query.
// The URL is expected in the format "scheme://host/path?query" with every
// part optional. Though we could have used the standard URL package we
// wanted to maintain fine control.
func parseURL(url string) (scheme string, host string, path string, query string) {
	schemeEndPos := strings.Index(url, consts.SchemeDelimiter)
	if schemeEndPos != -1 {
		scheme = url[:schemeEndPos]
		url = url[schemeEndPos+len(consts.SchemeDelimiter):]
	}

	pathStartPos := strings.IndexByte(url, consts.RuneFwdSlash)
	if pathStartPos != -1 {
		host = url[:pathStartPos]
		url = url[pathStartPos:]
	} else if schemeEndPos != -1 {
		host = url
		url = ""
	}

	queryPos := strings.IndexByte(url, consts.RuneQuestion)
	if queryPos != -1 {
		path = url[:queryPos]
		query = url[queryPos+1:]
	} else {
		path = url
	}

	// FIXUPS

	if lnPath := len(path); lnPath == 0 {
		path = "/"
	} else if lnPath > 1 && strings.HasSuffix(path, "/") { // Trailing slash removal
		path = path[:lnPath-1]
	}

	// If the host is empty, set it to "localhost"
	if host == "" {
		host = consts.Localhost
	}

	return
}
