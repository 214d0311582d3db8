package ron_test

import (
	"testing"

	"github.com/rohanthewiz/assert"
	"github.com/rohanthewiz/ron"
	"github.com/rohanthewiz/ron/consts"
)

func TestBytes(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		c.On(ron.Root, func() {
			_ = c.Bytes([]byte("Hello"))
		})
	})

	response := app.Request(consts.MethodGet, "/", nil, nil)
	assert.Equal(t, consts.StatusOK, response.Status())
	assert.Equal(t, "Hello", string(response.Body()))
}

func TestString(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		c.On(ron.Root, func() {
			_ = c.String("Hello")
		})
	})

	response := app.Request(consts.MethodGet, "/", nil, nil)
	assert.Equal(t, consts.StatusOK, response.Status())
	assert.Equal(t, "Hello", string(response.Body()))
}

func TestRedirect(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		c.On("old", func() {
			c.Redirect(consts.StatusMovedPermanently, "/new")
		})
	})

	response := app.Request(consts.MethodGet, "/old", nil, nil)
	assert.Equal(t, consts.StatusMovedPermanently, response.Status())
	assert.Equal(t, "/new", response.Header("Location"))
}

func TestStatusChaining(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		c.On("denied", func() {
			_ = c.Status(consts.StatusUnauthorized).String("no entry")
		})
	})

	response := app.Request(consts.MethodGet, "/denied", nil, nil)
	assert.Equal(t, consts.StatusUnauthorized, response.Status())
	assert.Equal(t, "no entry", string(response.Body()))
}

func TestSessionConfigured(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		c.On("whoami", func() {
			name, _ := c.Session()["user"].(string)
			_ = c.String("user=" + name)
		})
	}, ron.AppOptions{
		Sessions: func(req ron.Request) map[string]any {
			return map[string]any{"user": req.Header("X-User")}
		},
	})

	response := app.Request(consts.MethodGet, "/whoami",
		[]ron.Header{{Key: "X-User", Value: "rohan"}}, nil)
	assert.Equal(t, "user=rohan", string(response.Body()))
}

// Using Session with no store configured is a fault at first use,
// not something caught at app construction.
func TestSessionMissingStore(t *testing.T) {
	app := ron.NewApp(func(c ron.Context) {
		c.On("whoami", func() {
			_ = c.Session()
		})
	})

	defer func() {
		if recover() == nil {
			t.Error("Didn't panic")
		}
	}()

	app.Request(consts.MethodGet, "/whoami", nil, nil)
}
