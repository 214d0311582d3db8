package ron

import (
	"fmt"

	"github.com/rohanthewiz/serr"
)

// Context is the interface for one dispatch: a request, its response in
// progress, and the clause machinery operating on them.
type Context interface {
	On(args ...any)
	Halt()
	RunApp(app *App)
	Request() Request
	Response() Response
	Status(int) Context
	Redirect(status int, location string)
	Bytes([]byte) error
	String(string) error
	Session() map[string]any
}

// context contains the request and response data plus the capture stack.
// One context belongs to exactly one in-flight dispatch and is never shared.
type context struct {
	request
	response
	app      *App
	captures []string
	session  map[string]any
}

// On evaluates a clause: the given matcher expressions left to right against
// the request, short-circuiting on the first failure. The last argument is
// the clause body, either func(vars ...string) or func().
//
// When every expression matches, the body runs with the captured values in
// the order the consuming matchers produced them, and the dispatch commits -
// no clause after a successful one is ever evaluated, at any nesting depth.
// When any expression fails, the path cursor is restored to its pre-clause
// position and control falls through to whatever the caller tries next.
func (ctx *context) On(args ...any) {
	if len(args) == 0 {
		panic(serr.New("On requires a clause body as its final argument"))
	}

	var body func(vars ...string)

	switch fn := args[len(args)-1].(type) {
	case func(...string):
		body = fn
	case func():
		body = func(...string) { fn() }
	default:
		panic(serr.New(fmt.Sprintf(
			"the final argument to On must be a clause body func(vars ...string) or func(), got %T",
			args[len(args)-1])))
	}

	consumed, remaining := ctx.request.cursor()
	// The restore must survive any exit from the attempt, including a fault
	// inside a predicate. After a commit it runs too, harmlessly - the
	// outcome is already fixed by then.
	defer ctx.request.restoreCursor(consumed, remaining)

	ctx.captures = ctx.captures[:0]

	for _, arg := range args[:len(args)-1] {
		if !toMatcher(arg).match(ctx) {
			return
		}
	}

	// The body may open nested clauses, which reset the shared capture
	// stack, so it gets its own copy.
	vars := make([]string, len(ctx.captures))
	copy(vars, ctx.captures)

	body(vars...)
	panic(commitSignal{})
}

// Halt commits the response exactly as it stands and abandons all pending
// matching anywhere in the tree.
func (ctx *context) Halt() {
	panic(commitSignal{})
}

// RunApp hands the dispatch over to another app's matcher tree. The sub-app
// sees the current cursor position and response state; whatever outcome it
// settles on is committed here, whether or not one of its clauses matched.
func (ctx *context) RunApp(app *App) {
	func() {
		defer recoverCommit()
		app.handler(ctx)
	}()

	panic(commitSignal{})
}

// Request returns the HTTP request.
func (ctx *context) Request() Request {
	return &ctx.request
}

// Response returns the HTTP response.
func (ctx *context) Response() Response {
	return &ctx.response
}

// Status sets the HTTP status of the response
// and returns the context for method chaining.
func (ctx *context) Status(status int) Context {
	ctx.response.SetStatus(status)
	return ctx
}

// Redirect points the client at a different location
// with the specified status code.
func (ctx *context) Redirect(status int, location string) {
	ctx.response.SetStatus(status)
	ctx.response.SetHeader("Location", location)
}

// Bytes adds the raw byte slice to the response body.
func (ctx *context) Bytes(body []byte) error {
	ctx.response.body = append(ctx.response.body, body...)
	return nil
}

// String adds the given string to the response body.
func (ctx *context) String(body string) error {
	ctx.response.body = append(ctx.response.body, body...)
	return nil
}

// Session returns the per-request session data supplied by the store
// configured on the app. Calling Session on an app with no store is a
// programming error and faults the dispatch at the point of first use.
func (ctx *context) Session() map[string]any {
	if ctx.session != nil {
		return ctx.session
	}

	if ctx.app.sessions == nil {
		panic(serr.New("no session store configured: set AppOptions.Sessions before using Session"))
	}

	ctx.session = ctx.app.sessions(&ctx.request)
	return ctx.session
}
