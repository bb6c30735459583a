package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"batch-calculator/internal/auth"
	"batch-calculator/internal/calculator"
	"batch-calculator/internal/db"
	"batch-calculator/internal/logger"
)

const maxBodySize = 1 << 20

type CalculateResponse struct {
	ID      string                         `json:"id"`
	Results []calculator.CalculationResult `json:"results"`
}

type CalculationResponse struct {
	ID           string                         `json:"id"`
	Status       string                         `json:"status"`
	Input        json.RawMessage                `json:"input"`
	Results      []calculator.CalculationResult `json:"results"`
	ErrorMessage *string                        `json:"error_message,omitempty"`
	CreatedAt    time.Time                      `json:"created_at"`
}

func newCalculationResponse(calc *db.Calculation) CalculationResponse {
	results := make([]calculator.CalculationResult, len(calc.Results))
	for i, r := range calc.Results {
		results[i] = calculator.CalculationResult{Operation: r.Operation, Result: r.Result}
	}

	input := json.RawMessage(calc.Input)
	if !json.Valid(input) {
		input, _ = json.Marshal(calc.Input)
	}

	return CalculationResponse{
		ID:           calc.ID,
		Status:       calc.Status,
		Input:        input,
		Results:      results,
		ErrorMessage: calc.ErrorMessage,
		CreatedAt:    calc.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogERROR(fmt.Sprintf("Failed to encode response: %v", err))
	}
}

// HandleCalculate вычисляет пакет операций (POST /api/v1/calculate)
func HandleCalculate(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireAuth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.LogINFO(fmt.Sprintf("Received calculate request from user %d: %s", userID, body))

	calc, results, err := ProcessBatch(userID, body)
	if err != nil {
		if calculator.IsInputError(err) {
			logger.LogINFO(fmt.Sprintf("Rejected batch: %v", err))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		logger.LogERROR(fmt.Sprintf("Failed to process batch: %v", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, CalculateResponse{ID: calc.ID, Results: results})
}

// HandleGetCalculations возвращает историю пользователя (GET /api/v1/calculations)
func HandleGetCalculations(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireAuth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	logger.LogINFO(fmt.Sprintf("Received get calculations request from user %d", userID))

	calculations, err := db.GetUserCalculations(userID)
	if err != nil {
		logger.LogERROR(fmt.Sprintf("Failed to get calculations: %v", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]CalculationResponse, len(calculations))
	for i, calc := range calculations {
		response[i] = newCalculationResponse(calc)
	}

	writeJSON(w, http.StatusOK, response)
}

// HandleGetCalculationByID возвращает один пакет (GET /api/v1/calculations/{id})
func HandleGetCalculationByID(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireAuth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	logger.LogINFO(fmt.Sprintf("Received get calculation by id request: %v", id))

	calc, err := GetUserCalculation(userID, id)
	if err != nil {
		if errors.Is(err, ErrCalculationNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.LogERROR(fmt.Sprintf("Failed to get calculation: %v", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newCalculationResponse(calc))
}
