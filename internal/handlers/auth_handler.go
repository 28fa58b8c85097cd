package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gallery-backend/internal/database"
	"gallery-backend/internal/dto"
	"gallery-backend/internal/middleware"
	"gallery-backend/internal/services"
	"gallery-backend/utils/response"
)

type AuthHandler struct {
	service  *services.AuthService
	sessions *services.SessionService
}

func NewAuthHandler(db *database.DB, sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{
		service:  services.NewAuthService(db),
		sessions: sessions,
	}
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.service.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUsername) {
			response.Error(w, http.StatusConflict, "Username already exists")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data:    user,
		Message: "User registered successfully",
	})
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req dto.LoginUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to login user")
		return
	}

	token, err := h.sessions.Start(r.Context(), user)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(services.SessionLifetime.Seconds()),
	})

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "User logged in successfully",
	})
}

func (h *AuthHandler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.sessions.End(r.Context(), session.ID); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to end session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "User logged out successfully",
	})
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.service.GetUserByID(session.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.Error(w, http.StatusNotFound, "User not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    user,
	})
}
