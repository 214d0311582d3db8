package ron

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rohanthewiz/ron/consts"
	"github.com/rohanthewiz/serr"
)

// Handler is the root of an app's matcher tree. It runs once per dispatch;
// clauses are entered by calling Context.On.
type Handler func(ctx Context)

// AppOptions configure an App.
type AppOptions struct {
	Verbose bool
	// Sessions supplies per-request session data. Leave nil when the host
	// provides no sessions; Context.Session then faults on first use.
	Sessions func(req Request) map[string]any
}

// App drives a matcher tree. One App serves any number of concurrent
// dispatches - every request gets a fresh, isolated context, so the tree
// itself holds no per-request state.
type App struct {
	handler  Handler
	sessions func(req Request) map[string]any
	verbose  bool
}

// NewApp creates an app around the given matcher tree.
func NewApp(handler Handler, opts ...AppOptions) *App {
	a := &App{handler: handler}

	if len(opts) == 1 {
		a.verbose = opts[0].Verbose
		a.sessions = opts[0].Sessions
	}

	return a
}

// commitSignal is the single-shot non-local exit that fixes a dispatch's
// outcome: it unwinds every in-progress clause frame straight to the
// dispatch boundary. Raised by a successful clause, Halt or RunApp.
type commitSignal struct{}

// recoverCommit swallows a commit unwind and re-raises anything else.
func recoverCommit() {
	if r := recover(); r != nil {
		if _, ok := r.(commitSignal); !ok {
			panic(r)
		}
	}
}

// dispatch runs the matcher tree to its terminal outcome: a committed
// response, or the default outcome when the whole tree runs dry without a
// commit. A commitSignal is the only panic recovered here - faults raised
// by predicates or clause bodies are handler-owned and surface to the host
// unchanged.
func (a *App) dispatch(ctx *context) {
	defer ctx.response.finish()
	defer recoverCommit()

	a.handler(ctx)
}

// newContext allocates a fresh dispatch context.
func (a *App) newContext() *context {
	return &context{
		app: a,
		request: request{
			headers: make([]Header, 0, 8),
		},
		response: response{
			body:    make([]byte, 0, 512),
			headers: make([]Header, 0, 8),
		},
	}
}

// Request performs a synthetic request against the app and returns the
// response. Everything stays in memory, which makes this ideal inside tests
// where you don't want to spin up a real web server.
func (a *App) Request(method string, url string, headers []Header, body io.Reader) Response {
	ctx := a.newContext()
	ctx.request.method = method
	ctx.request.headers = append(ctx.request.headers, headers...)
	ctx.request.scheme, ctx.request.host, ctx.request.path, ctx.request.query = parseURL(url)
	ctx.request.remaining = ctx.request.path

	if body != nil {
		if b, err := io.ReadAll(body); err == nil {
			ctx.request.body = b
		}
	}

	a.dispatch(ctx)
	return ctx.Response()
}

// ServeHTTP adapts the app to the host HTTP library. Each request gets its
// own dispatch context; nothing is shared between in-flight requests.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := a.newContext()
	req := &ctx.request

	req.method = r.Method
	req.scheme = consts.HTTP
	if r.TLS != nil {
		req.scheme = consts.HTTPS
	}

	req.host = r.Host
	if i := strings.IndexByte(req.host, consts.RuneColon); i != -1 {
		req.host = req.host[:i]
	}

	req.path = r.URL.Path
	if req.path == "" {
		req.path = "/"
	}
	req.remaining = req.path
	req.query = r.URL.RawQuery

	for key, values := range r.Header {
		for _, value := range values {
			req.headers = append(req.headers, Header{Key: key, Value: value})
		}
	}

	if r.Body != nil {
		if b, err := io.ReadAll(r.Body); err == nil {
			req.body = b
		}
	}

	a.dispatch(ctx)

	for _, header := range ctx.response.headers {
		w.Header().Add(header.Key, header.Value)
	}
	w.WriteHeader(ctx.response.Status())
	_, _ = w.Write(ctx.response.body)
}

// RunOpts adjust a Run invocation.
type RunOpts struct {
	Verbose bool
	// StatusChan signals that the server is about to enter its listen loop.
	// It should be a buffered chan (cap 1 is all that is needed), so the
	// server will not hang.
	StatusChan chan struct{}
}

// Run serves the app on the given address until SIGINT or SIGTERM.
func (a *App) Run(address string, runOpts ...RunOpts) error {
	opts := RunOpts{Verbose: a.verbose}

	if len(runOpts) == 1 {
		opts.Verbose = opts.Verbose || runOpts[0].Verbose
		opts.StatusChan = runOpts[0].StatusChan
	}

	listener, err := net.Listen(consts.ProtocolTCP, address)
	if err != nil {
		return serr.Wrap(err, "unable to listen on "+address)
	}
	defer listener.Close()

	srv := &http.Server{Handler: a}

	go func() {
		if opts.StatusChan != nil { // don't forget nil check!
			opts.StatusChan <- struct{}{} // Let the caller know we are running
		}

		if opts.Verbose {
			fmt.Printf("Server is running at %s\n", address)
		}

		_ = srv.Serve(listener)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return srv.Close()
}
