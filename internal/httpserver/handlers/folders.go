package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/folders"
	"github.com/fedimark/fedimark/internal/httpserver/deps"
)

type folderRequest struct {
	Name string `json:"name"`
}

type deleteFoldersRequest struct {
	Positions []int `json:"positions"`
}

func ListFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := d.Registry.Folders()
		if list == nil {
			list = []*domain.Folder{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		folder, err := d.Registry.Create(r.Context(), req.Name)
		switch {
		case errors.Is(err, folders.ErrEmptyName):
			writeError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to persist folder")
		default:
			writeJSON(w, http.StatusCreated, folder)
		}
	}
}

func RenameFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folderID := chi.URLParam(r, "folderID")
		if d.Registry.Get(folderID) == nil {
			writeError(w, http.StatusNotFound, "folder not found")
			return
		}

		var req folderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		err := d.Registry.Rename(r.Context(), folderID, req.Name)
		switch {
		case errors.Is(err, folders.ErrEmptyName):
			writeError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to persist folder")
		default:
			writeJSON(w, http.StatusOK, d.Registry.Get(folderID))
		}
	}
}

func DeleteFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteFoldersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		if err := d.Registry.DeleteAt(r.Context(), req.Positions); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist folders")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// FolderBookmarks lists a folder's members in collection order, skipping
// IDs that are no longer part of the synced collection.
func FolderBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folderID := chi.URLParam(r, "folderID")
		if d.Registry.Get(folderID) == nil {
			writeError(w, http.StatusNotFound, "folder not found")
			return
		}

		snapshot := d.Synchronizer.Snapshot()
		members := d.Registry.MembersOf(folderID, snapshot.Statuses)

		clean := make([]*domain.Status, len(members))
		for i, s := range members {
			clean[i] = d.Sanitizer.Status(s)
		}
		writeJSON(w, http.StatusOK, clean)
	}
}

func AddFolderBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folderID := chi.URLParam(r, "folderID")
		if d.Registry.Get(folderID) == nil {
			writeError(w, http.StatusNotFound, "folder not found")
			return
		}

		if err := d.Registry.AddBookmark(r.Context(), folderID, chi.URLParam(r, "statusID")); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist folder")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RemoveFolderBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folderID := chi.URLParam(r, "folderID")
		if d.Registry.Get(folderID) == nil {
			writeError(w, http.StatusNotFound, "folder not found")
			return
		}

		if err := d.Registry.RemoveBookmark(r.Context(), folderID, chi.URLParam(r, "statusID")); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist folder")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
