package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"gallery-backend/internal/database"
	"gallery-backend/internal/dto"
	"gallery-backend/internal/middleware"
	"gallery-backend/internal/services"
	"gallery-backend/internal/storage"
	"gallery-backend/utils/response"
)

type ImageHandler struct {
	service *services.ImageService
	store   *storage.LocalStorage
}

func NewImageHandler(db *database.DB, store *storage.LocalStorage) *ImageHandler {
	return &ImageHandler{
		service: services.NewImageService(db, store),
		store:   store,
	}
}

func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	// Payloads are base64 text, roughly 4/3 of the decoded image size.
	r.Body = http.MaxBytesReader(w, r.Body, 32*1024*1024) // 32MB limit

	var req dto.UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ImageData == "" {
		response.Error(w, http.StatusBadRequest, "No image data received")
		return
	}

	image, err := h.service.Upload(session.UserID, req.ImageData)
	if err != nil {
		if errors.Is(err, services.ErrMalformedPayload) {
			response.Error(w, http.StatusBadRequest, "Malformed image payload")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	resp := dto.ImageResponse{
		ID:       image.ID,
		Filename: image.Filename,
	}

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data:    resp,
		Message: "Image uploaded successfully",
	})
}

func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	images, err := h.service.ListForOwner(session.UserID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list images")
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    images,
	})
}

func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	filename := r.PathValue("filename")
	if filename == "" {
		response.Error(w, http.StatusBadRequest, "'filename' not present in path")
		return
	}

	// Ownership gate: a foreign filename answers 404, same as a missing one.
	image, err := h.service.FindOwned(filename, session.UserID)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			response.Error(w, http.StatusNotFound, "Image not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to get image")
		return
	}

	f, err := h.store.Open(image.Filename)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to read image")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", image.Filename))

	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}
