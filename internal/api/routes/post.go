package routes

import (
	"Postdeck/internal/api/handlers/post"
	"Postdeck/internal/api/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers the post collection endpoints on the router.
// Reads are public; mutations require a Bearer token.
func RegisterPostRoutes(r chi.Router, service post.Service, authMiddleware *middleware.BearerAuthMiddleware) {
	listHandler := post.NewListHandler(service)
	getHandler := post.NewGetHandler(service)
	createHandler := post.NewCreateHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)

	r.Get("/posts", listHandler.HandleList)
	r.Get("/posts/search", listHandler.HandleSearch)
	r.Get("/posts/{id}", getHandler.HandleGet)

	r.With(authMiddleware.RequireAuth).Post("/posts/add", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Put("/posts/{id}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Patch("/posts/{id}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/posts/{id}", deleteHandler.HandleDelete)
}
