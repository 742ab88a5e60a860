package server

import (
	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-auth-bookmarks"
)

// Route is an entry of the static route table. Access is decided here,
// before any token is looked at.
type Route struct {
	Name    string
	Method  string
	Path    string
	Access  auth.RouteAccess
	Handler fiber.Handler
}

// Handlers groups the controllers mounted by the route table
type Handlers struct {
	Auth      *auth.AuthController
	Users     *auth.UserController
	Bookmarks BookmarkHandlers
}

// BookmarkHandlers is the bookmark controller surface
type BookmarkHandlers interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

// RouteTable returns every route the API serves
func RouteTable(h Handlers) []Route {
	return []Route{
		{Name: "auth.signup", Method: fiber.MethodPost, Path: "/auth/signup", Access: auth.RoutePublic, Handler: h.Auth.SignUp},
		{Name: "auth.signin", Method: fiber.MethodPost, Path: "/auth/signin", Access: auth.RoutePublic, Handler: h.Auth.SignIn},

		{Name: "users.me", Method: fiber.MethodGet, Path: "/users/me", Access: auth.RouteProtected, Handler: h.Users.Me},
		{Name: "users.edit", Method: fiber.MethodPatch, Path: "/users", Access: auth.RouteProtected, Handler: h.Users.Edit},

		{Name: "bookmarks.list", Method: fiber.MethodGet, Path: "/bookmarks", Access: auth.RouteProtected, Handler: h.Bookmarks.List},
		{Name: "bookmarks.create", Method: fiber.MethodPost, Path: "/bookmarks", Access: auth.RouteProtected, Handler: h.Bookmarks.Create},
		{Name: "bookmarks.get", Method: fiber.MethodGet, Path: "/bookmarks/:id", Access: auth.RouteProtected, Handler: h.Bookmarks.Get},
		{Name: "bookmarks.update", Method: fiber.MethodPatch, Path: "/bookmarks/:id", Access: auth.RouteProtected, Handler: h.Bookmarks.Update},
		{Name: "bookmarks.delete", Method: fiber.MethodDelete, Path: "/bookmarks/:id", Access: auth.RouteProtected, Handler: h.Bookmarks.Delete},
	}
}
