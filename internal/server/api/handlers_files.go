package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/storebox/internal/server/models"
)

type renameRequest struct {
	Name string `json:"name"`
}

type sharingRequest struct {
	Emails []string `json:"emails"`
}

type listResponse struct {
	Files []*models.FileRecord `json:"files"`
	Total int                  `json:"total"`
}

// handleListFiles serves GET /api/files. Query parameters:
// types (comma-separated categories), search, sort ("field-direction"),
// limit.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	q := r.URL.Query()

	var types []string
	if raw := q.Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	records, err := s.files.ListFiles(r.Context(), user, types, q.Get("search"), q.Get("sort"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*models.FileRecord{}
	}

	writeJSON(w, http.StatusOK, listResponse{Files: records, Total: len(records)})
}

// handleUploadFile serves POST /api/files with a multipart body carrying a
// single "file" part. The body is capped at the configured maximum before
// any parsing happens.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file part"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable file part"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	record, err := s.files.UploadFile(r.Context(), user, header.Filename, data, contentType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleRenameFile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	fileID := chi.URLParam(r, "fileID")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	record, err := s.files.RenameFile(r.Context(), user, fileID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleUpdateSharing(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	fileID := chi.URLParam(r, "fileID")

	var req sharingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	record, err := s.files.UpdateFileSharing(r.Context(), user, fileID, req.Emails)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	fileID := chi.URLParam(r, "fileID")

	if err := s.files.DeleteFile(r.Context(), user, fileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUsageSummary(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	summary, err := s.files.GetUsageSummary(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
