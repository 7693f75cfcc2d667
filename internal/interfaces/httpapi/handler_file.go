package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/teamflow/internal/domain/teamfile"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFiles")
	defer span.End()

	filter, err := fileFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.files.List(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "list files failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, filesToDTO(items))
}

func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFile")
	defer span.End()

	fileID := r.PathValue("fileID")
	item, ok, err := h.files.GetByID(ctx, fileID)
	if err == nil && !ok {
		err = notFound("file", fileID)
	}
	if err != nil {
		h.fail(ctx, w, "get file failed", err, "file_id", fileID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fileToDTO(item))
}

func (h *Handler) CreateFile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFile")
	defer span.End()

	var req createFileRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.files.Create(ctx, usecase.CreateFileInput{
		Name:       strings.TrimSpace(req.Name),
		Type:       strings.TrimSpace(req.Type),
		URL:        req.URL,
		UploadedBy: strings.TrimSpace(req.UploadedBy),
		Category:   teamfile.Category(req.Category),
	})
	if err != nil {
		h.fail(ctx, w, "create file failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, fileToDTO(item))
}

func (h *Handler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFile")
	defer span.End()

	fileID := r.PathValue("fileID")
	var req updateFileRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	patch := teamfile.Update{Name: req.Name}
	if req.Category != nil {
		category := teamfile.Category(*req.Category)
		patch.Category = &category
	}

	item, ok, err := h.files.Update(ctx, fileID, patch)
	if err == nil && !ok {
		err = notFound("file", fileID)
	}
	if err != nil {
		h.fail(ctx, w, "update file failed", err, "file_id", fileID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fileToDTO(item))
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFile")
	defer span.End()

	fileID := r.PathValue("fileID")
	ok, err := h.files.Delete(ctx, fileID)
	if err == nil && !ok {
		err = notFound("file", fileID)
	}
	if err != nil {
		h.fail(ctx, w, "delete file failed", err, "file_id", fileID)
		return
	}

	writeDeleted(ctx, w)
}

func (h *Handler) GetFileSharing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFileSharing")
	defer span.End()

	fileID := r.PathValue("fileID")
	enabled, err := h.files.IsShareEnabled(ctx, fileID)
	if err != nil {
		h.fail(ctx, w, "get file sharing failed", err, "file_id", fileID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"shareEnabled": enabled})
}

func (h *Handler) EnableFileSharing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnableFileSharing")
	defer span.End()

	fileID := r.PathValue("fileID")
	link, ok, err := h.files.EnableSharing(ctx, fileID)
	if err == nil && !ok {
		err = notFound("file", fileID)
	}
	if err != nil {
		h.fail(ctx, w, "enable file sharing failed", err, "file_id", fileID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, shareLinkToDTO(link))
}

func (h *Handler) DisableFileSharing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DisableFileSharing")
	defer span.End()

	fileID := r.PathValue("fileID")
	ok, err := h.files.DisableSharing(ctx, fileID)
	if err == nil && !ok {
		err = notFound("file", fileID)
	}
	if err != nil {
		h.fail(ctx, w, "disable file sharing failed", err, "file_id", fileID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"shareEnabled": false})
}

// GetSharedFile resolves a public share link. It never requires auth.
func (h *Handler) GetSharedFile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSharedFile")
	defer span.End()

	shareID := r.PathValue("shareID")
	item, ok, err := h.files.ResolveByShareID(ctx, shareID)
	if err == nil && !ok {
		err = notFound("share", shareID)
	}
	if err != nil {
		h.fail(ctx, w, "resolve shared file failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fileToDTO(item))
}

func fileFilterFromQuery(r *http.Request) (teamfile.Filter, error) {
	var filter teamfile.Filter

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		filter.Category = teamfile.Category(raw)
		if !filter.Category.Valid() {
			return teamfile.Filter{}, fmt.Errorf("%w: unknown category %q", usecase.ErrInvalidInput, raw)
		}
	}
	filter.UploadedBy = strings.TrimSpace(r.URL.Query().Get("uploaded_by"))

	var err error
	if filter.Start, err = queryTime(r, "start"); err != nil {
		return teamfile.Filter{}, err
	}
	if filter.End, err = queryTime(r, "end"); err != nil {
		return teamfile.Filter{}, err
	}
	return filter, nil
}
