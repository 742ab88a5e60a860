// Package server assembles the fiber application from the route table.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-auth-bookmarks"
	"github.com/goliatone/go-auth-bookmarks/middleware/jwtware"
)

type Options struct {
	AppName      string
	Debug        bool
	Logger       auth.Logger
	Guard        *auth.Guard
	Handlers     Handlers
	ContextKey   string
	TokenLookup  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	app    *fiber.App
	logger auth.Logger
	routes []Route
}

// New builds the application, every route gets its guard from the table
func New(opts Options) *Server {
	if opts.Logger == nil {
		panic("server: logger is required")
	}
	if opts.Guard == nil {
		panic("server: guard is required")
	}

	errorHandler := NewErrorHandler(opts.Logger, opts.Debug)

	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		ErrorHandler:          errorHandler,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: true,
	})

	app.Use(RequestLogger(opts.Logger))

	routes := RouteTable(opts.Handlers)
	for _, r := range routes {
		guard := jwtware.New(jwtware.Config{
			Guard:        opts.Guard,
			Access:       r.Access,
			ContextKey:   opts.ContextKey,
			TokenLookup:  opts.TokenLookup,
			AuthScheme:   opts.Guard.Scheme(),
			ErrorHandler: errorHandler,
		})
		app.Add(r.Method, r.Path, guard, r.Handler).Name(r.Name)
	}

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Cannot "+c.Method()+" "+c.Path())
	})

	return &Server{
		app:    app,
		logger: opts.Logger,
		routes: routes,
	}
}

// App exposes the fiber app, tests drive it through App().Test
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Routes() []Route {
	return s.routes
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.app.ShutdownWithContext(ctx)
}
