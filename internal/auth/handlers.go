package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"batch-calculator/internal/db"
	"batch-calculator/internal/logger"
)

// Credentials тело запросов регистрации и входа
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse ответ на успешный вход
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (Credentials, bool) {
	var req Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Ошибка при разборе JSON: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.Login == "" || req.Password == "" {
		http.Error(w, "Логин и пароль не могут быть пустыми", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// Register обрабатывает запрос на регистрацию (POST /api/v1/register)
func Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := db.CreateUser(req.Login, req.Password)
	if err != nil {
		if errors.Is(err, db.ErrUserAlreadyExists) {
			http.Error(w, "Пользователь с таким логином уже существует", http.StatusConflict)
			return
		}
		logger.LogERROR("Failed to create user: " + err.Error())
		http.Error(w, "Ошибка при создании пользователя: "+err.Error(), http.StatusInternalServerError)
		return
	}

	logger.LogINFO("Registered user " + user.Login)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login обрабатывает запрос на вход пользователя (POST /api/v1/login)
func Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := db.AuthenticateUser(req.Login, req.Password)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) || errors.Is(err, db.ErrInvalidCredentials) {
			http.Error(w, "Неверный логин или пароль", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Ошибка при аутентификации: "+err.Error(), http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := GenerateToken(user)
	if err != nil {
		logger.LogERROR("Failed to generate token: " + err.Error())
		http.Error(w, "Ошибка при создании токена: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(LoginResponse{Token: token, ExpiresAt: expiresAt})
}
