package ron

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rohanthewiz/ron/consts"
	"github.com/rohanthewiz/serr"
)

// Matcher is one expression in a clause: it decides success against the
// current request and may consume leading path segments and append captures.
// The set of implementations is closed; On also accepts raw strings,
// regexps, bools and predicate funcs and normalizes them here.
type Matcher interface {
	match(ctx *context) bool
}

// segmentPattern matches exactly one path segment - no slash.
const segmentPattern = `([^/]+)`

// segmentTokens finds the :name placeholders in a string template.
var segmentTokens = regexp.MustCompile(`:\w+`)

// compiledPatterns caches anchored segment regexes by their source pattern,
// so clause trees rebuilt on every dispatch don't recompile anything.
var compiledPatterns sync.Map // pattern string -> *regexp.Regexp

// compileSegment anchors pattern to one leading chunk of the remaining path:
// a "/" must come right before it, and a "/" or the end of the path right
// after. The trailing requirement is what keeps "user" from matching
// "/users/5".
func compileSegment(pattern string) *regexp.Regexp {
	if cached, ok := compiledPatterns.Load(pattern); ok {
		return cached.(*regexp.Regexp)
	}

	re, err := regexp.Compile("^/(" + pattern + ")(/|$)")
	if err != nil {
		panic(serr.Wrap(err, "invalid matcher pattern: "+pattern))
	}

	compiledPatterns.Store(pattern, re)
	return re
}

// consumeMatcher matches a compiled pattern against the leading path
// segment(s), consuming them and capturing any group values.
type consumeMatcher struct {
	re *regexp.Regexp
}

func (m consumeMatcher) match(ctx *context) bool {
	vars, ok := ctx.request.consume(m.re)
	if !ok {
		return false
	}

	ctx.captures = append(ctx.captures, vars...)
	return true
}

// predicateMatcher defers the match decision to an arbitrary function.
type predicateMatcher struct {
	fn func(ctx *context) bool
}

func (m predicateMatcher) match(ctx *context) bool {
	return m.fn(ctx)
}

// boolMatcher passes or fails unconditionally.
type boolMatcher bool

func (m boolMatcher) match(*context) bool {
	return bool(m)
}

// methodMatcher guards on the request method. No consumption, no captures.
type methodMatcher string

func (m methodMatcher) match(ctx *context) bool {
	return ctx.request.method == string(m)
}

// Verb guards.
var (
	Get     Matcher = methodMatcher(consts.MethodGet)
	Post    Matcher = methodMatcher(consts.MethodPost)
	Put     Matcher = methodMatcher(consts.MethodPut)
	Patch   Matcher = methodMatcher(consts.MethodPatch)
	Delete  Matcher = methodMatcher(consts.MethodDelete)
	Head    Matcher = methodMatcher(consts.MethodHead)
	Options Matcher = methodMatcher(consts.MethodOptions)
)

// Any consumes exactly one path segment, whatever it is, and captures it.
var Any Matcher = consumeMatcher{compileSegment(segmentPattern)}

// Default always matches. Conventional catch-all for the last clause.
var Default Matcher = boolMatcher(true)

// Root matches when the whole path has been consumed. No consumption effect.
var Root Matcher = predicateMatcher{func(ctx *context) bool {
	return ctx.request.remaining == "" || ctx.request.remaining == "/"
}}

// Segment matches one or more leading path segments against the template.
// Each :name token captures one segment; the rest of the template is used
// as-is inside the compiled pattern, so plain regex syntax works too.
// On compiles bare strings through here.
func Segment(template string) Matcher {
	return consumeMatcher{compileSegment(segmentTokens.ReplaceAllString(template, segmentPattern))}
}

// Pattern matches the given regular expression against the leading path
// segment(s); capturing groups in re become captures. The pattern is
// re-anchored to segment boundaries, the caller doesn't need to.
func Pattern(re *regexp.Regexp) Matcher {
	return consumeMatcher{compileSegment(re.String())}
}

// Ext consumes a final filename-like segment ending in ".ext" and captures
// the stem. An empty ext accepts any word extension.
func Ext(ext string) Matcher {
	if ext == "" {
		ext = `\w+`
	}
	return consumeMatcher{compileSegment(`([^/]+?)\.` + ext + `\z`)}
}

// Host guards on the request host. h may be a string for an exact
// comparison or a *regexp.Regexp. No consumption effect.
func Host(h any) Matcher {
	switch host := h.(type) {
	case string:
		return predicateMatcher{func(ctx *context) bool {
			return ctx.request.host == host
		}}
	case *regexp.Regexp:
		return predicateMatcher{func(ctx *context) bool {
			return host.MatchString(ctx.request.host)
		}}
	default:
		panic(serr.New(fmt.Sprintf("Host matcher requires a string or *regexp.Regexp, got %T", h)))
	}
}

// Accept matches when the request's Accept header lists exactly the given
// mimetype and, as a side effect, sets the response Content-Type to it.
func Accept(mimetype string) Matcher {
	return predicateMatcher{func(ctx *context) bool {
		for _, part := range strings.Split(ctx.request.Header(consts.HeaderAccept), ",") {
			if strings.TrimSpace(part) == mimetype {
				ctx.response.SetHeader(consts.HeaderContentType, mimetype)
				return true
			}
		}

		return false
	}}
}

// Param never fails its clause: when the named form or query parameter is
// present and non-empty its value is appended as a capture, otherwise
// nothing is appended. A soft enrichment, not a guard.
func Param(key string) Matcher {
	return predicateMatcher{func(ctx *context) bool {
		if v := ctx.request.FormValue(key); v != "" {
			ctx.captures = append(ctx.captures, v)
		}
		return true
	}}
}

// HasHeader matches when the given request header is present and non-empty.
// No consumption, no capture.
func HasHeader(key string) Matcher {
	return predicateMatcher{func(ctx *context) bool {
		return ctx.request.Header(key) != ""
	}}
}

// toMatcher normalizes a clause argument into a Matcher.
// Anything else is a programming error caught when the clause is built.
func toMatcher(arg any) Matcher {
	switch v := arg.(type) {
	case Matcher:
		return v
	case string:
		return Segment(v)
	case *regexp.Regexp:
		return Pattern(v)
	case bool:
		return boolMatcher(v)
	case func() bool:
		return predicateMatcher{func(*context) bool { return v() }}
	case func(Context) bool:
		return predicateMatcher{func(ctx *context) bool { return v(ctx) }}
	default:
		panic(serr.New(fmt.Sprintf("unsupported matcher type %T", arg)))
	}
}
