package web

import (
	"github.com/gin-gonic/gin"
)

// Handler is the application signature every route handler implements.
type Handler func(c *Context) error

// Middleware wraps a Handler with pre/post behavior.
type Middleware func(Handler) Handler

// App is a thin layer over gin that lets handlers return errors and receive
// the request context explicitly.
type App struct {
	*gin.Engine
}

func NewApp() *App {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	return &App{Engine: engine}
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.Engine.GET(path, a.wrap(handler, mw))
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.Engine.POST(path, a.wrap(handler, mw))
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.Engine.PUT(path, a.wrap(handler, mw))
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.Engine.PATCH(path, a.wrap(handler, mw))
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.Engine.DELETE(path, a.wrap(handler, mw))
}

func (a *App) wrap(handler Handler, mw []Middleware) gin.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}

	h := handler
	return func(gc *gin.Context) {
		c := &Context{Context: gc, Ctx: gc.Request.Context()}
		if err := h(c); err != nil {
			// Handlers normally respond themselves; this is the last resort.
			_ = c.RespondError(err)
		}
	}
}
