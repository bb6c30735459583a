package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCalculationNotFound = errors.New("calculation not found")
)

// CreateCalculation сохраняет успешно вычисленный пакет вместе с результатами
func CreateCalculation(userID int64, input string, results []CalculationResult) (*Calculation, error) {
	calc := &Calculation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Input:     input,
		Status:    StatusCompleted,
		Results:   make([]CalculationResult, len(results)),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO calculations (id, user_id, input, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		calc.ID, calc.UserID, calc.Input, calc.Status, calc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for i, r := range results {
		// Результат хранится текстом, чтобы не терять Inf и NaN
		_, err = tx.Exec(
			`INSERT INTO calculation_results (calculation_id, position, operation, result) VALUES (?, ?, ?, ?)`,
			calc.ID, i, r.Operation, strconv.FormatFloat(r.Result, 'g', -1, 64),
		)
		if err != nil {
			return nil, err
		}
		calc.Results[i] = CalculationResult{Position: i, Operation: r.Operation, Result: r.Result}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return calc, nil
}

// CreateFailedCalculation сохраняет пакет, вычисление которого завершилось ошибкой
func CreateFailedCalculation(userID int64, input string, errorMessage string) (*Calculation, error) {
	calc := &Calculation{
		ID:           uuid.NewString(),
		UserID:       userID,
		Input:        input,
		Status:       StatusError,
		ErrorMessage: &errorMessage,
		Results:      []CalculationResult{},
		CreatedAt:    time.Now().UTC(),
	}

	_, err := DB.Exec(
		`INSERT INTO calculations (id, user_id, input, status, error_message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		calc.ID, calc.UserID, calc.Input, calc.Status, errorMessage, calc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return calc, nil
}

// GetCalculationByID получает пакет по ID вместе с результатами
func GetCalculationByID(id string) (*Calculation, error) {
	calc, err := scanCalculation(DB.QueryRow(
		`SELECT id, user_id, input, status, error_message, created_at
         FROM calculations WHERE id = ?`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCalculationNotFound
		}
		return nil, err
	}

	if calc.Results, err = getCalculationResults(calc.ID); err != nil {
		return nil, err
	}

	return calc, nil
}

// GetUserCalculations получает все пакеты пользователя, новые первыми
func GetUserCalculations(userID int64) ([]*Calculation, error) {
	rows, err := DB.Query(
		`SELECT id, user_id, input, status, error_message, created_at
         FROM calculations
         WHERE user_id = ?
         ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	calculations := []*Calculation{}
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		calculations = append(calculations, calc)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Закрываем до следующих запросов: соединение с базой одно
	rows.Close()

	for _, calc := range calculations {
		if calc.Results, err = getCalculationResults(calc.ID); err != nil {
			return nil, err
		}
	}

	return calculations, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row rowScanner) (*Calculation, error) {
	var calc Calculation
	var errorMessage sql.NullString

	err := row.Scan(&calc.ID, &calc.UserID, &calc.Input, &calc.Status, &errorMessage, &calc.CreatedAt)
	if err != nil {
		return nil, err
	}

	if errorMessage.Valid {
		val := errorMessage.String
		calc.ErrorMessage = &val
	}

	return &calc, nil
}

func getCalculationResults(calculationID string) ([]CalculationResult, error) {
	rows, err := DB.Query(
		`SELECT position, operation, result FROM calculation_results
         WHERE calculation_id = ? ORDER BY position`,
		calculationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []CalculationResult{}
	for rows.Next() {
		var r CalculationResult
		var resultStr string
		if err := rows.Scan(&r.Position, &r.Operation, &resultStr); err != nil {
			return nil, err
		}
		r.Result, err = strconv.ParseFloat(resultStr, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse result '%s': %w", resultStr, err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
