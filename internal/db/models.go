package db

import (
	"time"
)

// User представляет пользователя в системе
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"` // Не включается в JSON сериализацию
	CreatedAt    time.Time `json:"created_at"`
}

// Calculation представляет сохраненный пакет операций
type Calculation struct {
	ID           string              `json:"id"`
	UserID       int64               `json:"user_id"`
	Input        string              `json:"input"`
	Status       string              `json:"status"`
	ErrorMessage *string             `json:"error_message"`
	Results      []CalculationResult `json:"results"`
	CreatedAt    time.Time           `json:"created_at"`
}

// CalculationResult представляет результат одной операции пакета
type CalculationResult struct {
	Position  int     `json:"position"`
	Operation string  `json:"operation"`
	Result    float64 `json:"result"`
}

// Статусы пакетов
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)
