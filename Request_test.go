package ron_test

import (
	"strings"
	"testing"

	"github.com/rohanthewiz/assert"
	"github.com/rohanthewiz/ron"
	"github.com/rohanthewiz/ron/consts"
)

// consumed + remaining must rebuild the original path after every attempt,
// successful or failed.
func TestPathDecomposition(t *testing.T) {
	checks := 0

	app := ron.NewApp(func(c ron.Context) {
		req := c.Request()

		invariant := func() {
			assert.Equal(t, req.Path(), req.ConsumedPath()+req.RemainingPath())
			checks++
		}

		invariant()

		// fails at "missing": full restore expected
		c.On("a", "missing", "c", func() {
			_ = c.String("never")
		})
		invariant()
		assert.Equal(t, "", req.ConsumedPath())
		assert.Equal(t, "/a/b/c", req.RemainingPath())

		c.On("a", ":x", func(vars ...string) {
			invariant()
			assert.Equal(t, "/a/b", req.ConsumedPath())
			assert.Equal(t, "/c", req.RemainingPath())
			assert.Equal(t, "b", vars[0])
			_ = c.String("done")
		})
	})

	response := app.Request(consts.MethodGet, "/a/b/c", nil, nil)
	assert.Equal(t, "done", string(response.Body()))
	assert.Equal(t, 3, checks)
}

func TestRestoreOnPartialFailure(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		c.On("a", "missing", "c", func() {
			_ = c.String("never")
		})

		// the sibling clause sees the untouched path
		c.On("a", "b", "c", func() {
			_ = c.String("sibling matched")
		})
	})

	response := app.Request(consts.MethodGet, "/a/b/c", nil, nil)
	assert.Equal(t, "sibling matched", string(response.Body()))
}

func TestRequestFields(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		req := c.Request()
		assert.Equal(t, consts.MethodPost, req.Method())
		assert.Equal(t, "http", req.Scheme())
		assert.Equal(t, "example.com", req.Host())
		assert.Equal(t, "/submit", req.Path())
		assert.Equal(t, "a=1&b=2", req.Query())
		assert.Equal(t, "payload", string(req.Body()))
		_ = c.String("ok")
		c.Halt()
	})

	response := app.Request(consts.MethodPost, "http://example.com/submit?a=1&b=2",
		nil, strings.NewReader("payload"))
	assert.Equal(t, "ok", string(response.Body()))
}

func TestHeaderCaseInsensitive(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		assert.Equal(t, "abc", c.Request().Header("x-token"))
		assert.Equal(t, "abc", c.Request().Header("X-Token"))
		assert.Equal(t, "abc", c.Request().Header("X-TOKEN"))
		assert.Equal(t, "", c.Request().Header("X-Other"))
		c.Halt()
	})

	app.Request(consts.MethodGet, "/", []ron.Header{{Key: "X-Token", Value: "abc"}}, nil)
}

func TestQueryValue(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		assert.Equal(t, "1", c.Request().QueryValue("page"))
		assert.Equal(t, "two words", c.Request().QueryValue("q"))
		assert.Equal(t, "", c.Request().QueryValue("nope"))
		c.Halt()
	})

	app.Request(consts.MethodGet, "/search?page=1&q=two+words", nil, nil)
}

func TestFormValue(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		req := c.Request()
		// query wins over body
		assert.Equal(t, "fromquery", req.FormValue("both"))
		assert.Equal(t, "frombody", req.FormValue("bodyonly"))
		assert.Equal(t, "", req.FormValue("absent"))
		c.Halt()
	})

	headers := []ron.Header{{Key: consts.HeaderContentType, Value: consts.MIMEFormData}}
	app.Request(consts.MethodPost, "/submit?both=fromquery",
		headers, strings.NewReader("both=frombody&bodyonly=frombody"))
}

// A body is only parsed as form args when the content type says so.
func TestFormValueWrongContentType(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		assert.Equal(t, "", c.Request().FormValue("key"))
		c.Halt()
	})

	headers := []ron.Header{{Key: consts.HeaderContentType, Value: consts.MIMEJSON}}
	app.Request(consts.MethodPost, "/submit", headers, strings.NewReader("key=value"))
}
