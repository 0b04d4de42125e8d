package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/fedimark/fedimark/internal/httpserver/deps"
	"github.com/fedimark/fedimark/internal/httpserver/handlers"
	"github.com/fedimark/fedimark/internal/httpserver/mw"
)

func init() { Register(registerFolders) }

func registerFolders(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Get("/api/folders", handlers.ListFolders(d))
	guarded.Post("/api/folders", handlers.CreateFolder(d))
	guarded.Delete("/api/folders", handlers.DeleteFolders(d))
	guarded.Patch("/api/folders/{folderID}", handlers.RenameFolder(d))
	guarded.Get("/api/folders/{folderID}/bookmarks", handlers.FolderBookmarks(d))
	guarded.Put("/api/folders/{folderID}/bookmarks/{statusID}", handlers.AddFolderBookmark(d))
	guarded.Delete("/api/folders/{folderID}/bookmarks/{statusID}", handlers.RemoveFolderBookmark(d))
}
