package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"batch-calculator/internal/auth"
)

// NewRouter собирает маршруты HTTP API
func NewRouter() *mux.Router {
	r := mux.NewRouter()

	// Публичные эндпоинты для аутентификации
	r.HandleFunc("/api/v1/register", auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/login", auth.Login).Methods(http.MethodPost)

	// Защищенные маршруты
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(auth.AuthMiddleware)
	protected.HandleFunc("/calculate", HandleCalculate).Methods(http.MethodPost)
	protected.HandleFunc("/calculations", HandleGetCalculations).Methods(http.MethodGet)
	protected.HandleFunc("/calculations/{id}", HandleGetCalculationByID).Methods(http.MethodGet)

	return r
}
