package api

import (
	"errors"
	"fmt"

	"batch-calculator/internal/calculator"
	"batch-calculator/internal/db"
	"batch-calculator/internal/logger"
)

var ErrCalculationNotFound = errors.New("calculation not found")

// ProcessBatch разбирает и вычисляет пакет операций, сохраняя его в историю.
// Ошибка вычисления тоже сохраняется, но пакет при этом не возвращается
func ProcessBatch(userID int64, input []byte) (*db.Calculation, []calculator.CalculationResult, error) {
	operations, err := calculator.ParseOperations(input)
	if err != nil {
		return nil, nil, err
	}

	results, err := calculator.RunOperations(operations)
	if err != nil {
		if _, dbErr := db.CreateFailedCalculation(userID, string(input), err.Error()); dbErr != nil {
			logger.LogERROR(fmt.Sprintf("Failed to record failed calculation: %v", dbErr))
		}
		return nil, nil, err
	}

	rows := make([]db.CalculationResult, len(results))
	for i, r := range results {
		rows[i] = db.CalculationResult{Position: i, Operation: r.Operation, Result: r.Result}
	}

	calc, err := db.CreateCalculation(userID, string(input), rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save calculation: %w", err)
	}

	return calc, results, nil
}

// GetUserCalculation возвращает пакет, только если он принадлежит пользователю
func GetUserCalculation(userID int64, id string) (*db.Calculation, error) {
	calc, err := db.GetCalculationByID(id)
	if err != nil {
		if errors.Is(err, db.ErrCalculationNotFound) {
			return nil, ErrCalculationNotFound
		}
		return nil, err
	}
	if calc.UserID != userID {
		return nil, ErrCalculationNotFound
	}
	return calc, nil
}
