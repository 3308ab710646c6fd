package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/genmind-ai/backend/internal/auth"
	"github.com/genmind-ai/backend/internal/domain"
	"github.com/genmind-ai/backend/internal/store"
)

type registerRequest struct {
	Name        string `json:"user_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type updateUserRequest struct {
	Name        *string `json:"user_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidInput))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, fmt.Errorf("name is required: %w", domain.ErrInvalidInput))
		return
	}
	if !auth.IsValidEmail(req.Email) {
		respondError(w, fmt.Errorf("invalid email address: %w", domain.ErrInvalidInput))
		return
	}
	if !auth.IsValidPhone(req.PhoneNumber) {
		respondError(w, fmt.Errorf("invalid phone number: %w", domain.ErrInvalidInput))
		return
	}
	if !auth.IsValidPassword(req.Password) {
		respondError(w, fmt.Errorf("password must be at least 8 characters with a lowercase letter, an uppercase letter, a digit and a special character: %w", domain.ErrInvalidInput))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, fmt.Errorf("hashing password: %w", err))
		return
	}
	user := &store.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(user); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully.",
		"user_id": user.ID,
	})
}

// Login authenticates by email or phone number. An identifier containing
// '@' is treated as an email, anything else as a phone number.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidInput))
		return
	}
	if req.Identifier == "" || req.Password == "" {
		respondError(w, fmt.Errorf("identifier and password are required: %w", domain.ErrInvalidInput))
		return
	}

	var email, phone string
	if strings.Contains(req.Identifier, "@") {
		email = req.Identifier
	} else {
		phone = req.Identifier
	}

	user, err := h.store.GetUserByEmailOrPhone(email, phone)
	if err != nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	loginTime := time.Now().UTC()
	if err := h.store.UpdateLastLogin(user.ID, loginTime); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message":    "Login successful.",
		"user_id":    user.ID,
		"login_time": loginTime.Format(time.RFC3339),
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.GetAllUsers()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]store.User{"users": users})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByID(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidInput))
		return
	}

	upd := store.UserUpdate{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			respondError(w, fmt.Errorf("name cannot be empty: %w", domain.ErrInvalidInput))
			return
		}
		name := strings.ToLower(strings.TrimSpace(*req.Name))
		upd.Name = &name
	}
	if req.Email != nil && !auth.IsValidEmail(*req.Email) {
		respondError(w, fmt.Errorf("invalid email address: %w", domain.ErrInvalidInput))
		return
	}
	if req.PhoneNumber != nil && !auth.IsValidPhone(*req.PhoneNumber) {
		respondError(w, fmt.Errorf("invalid phone number: %w", domain.ErrInvalidInput))
		return
	}
	if req.Password != nil {
		if !auth.IsValidPassword(*req.Password) {
			respondError(w, fmt.Errorf("password must be at least 8 characters with a lowercase letter, an uppercase letter, a digit and a special character: %w", domain.ErrInvalidInput))
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			respondError(w, fmt.Errorf("hashing password: %w", err))
			return
		}
		upd.PasswordHash = &hash
	}

	if err := h.store.UpdateUser(userID, upd); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User updated successfully."})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(chi.URLParam(r, "userID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully."})
}
