package calculator

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidInput        = errors.New("Input must be a JSON array of operations")
	ErrInvalidJSON         = errors.New("Invalid JSON input")
	ErrInvalidOperandCount = errors.New("Each operation requires at least 2 operands")
	ErrDivisionByZero      = errors.New("Division by zero")
	ErrUnknownOperator     = errors.New("unknown operator")
)

// Operator определяет арифметическую операцию
type Operator string

const (
	OperatorAdd      Operator = "add"
	OperatorSubtract Operator = "subtract"
	OperatorMultiply Operator = "multiply"
	OperatorDivide   Operator = "divide"
)

// Operation представляет одну операцию из входного списка
type Operation struct {
	Operator Operator  `json:"operator"`
	Operands []float64 `json:"operands"`
}

// Calculate вычисляет результат одной операции.
// Свёртка идёт слева направо, переполнение даёт ±Inf без ошибки
func Calculate(op Operation) (float64, error) {
	operands := op.Operands

	if len(operands) < 2 {
		return 0, ErrInvalidOperandCount
	}

	switch op.Operator {
	case OperatorAdd:
		result := 0.0
		for _, v := range operands {
			result += v
		}
		return result, nil
	case OperatorSubtract:
		result := operands[0]
		for _, v := range operands[1:] {
			result -= v
		}
		return result, nil
	case OperatorMultiply:
		result := 1.0
		for _, v := range operands {
			result *= v
		}
		return result, nil
	case OperatorDivide:
		// Все делители проверяются до первого деления
		for _, v := range operands[1:] {
			if v == 0 {
				return 0, ErrDivisionByZero
			}
		}
		result := operands[0]
		for _, v := range operands[1:] {
			result /= v
		}
		return result, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, string(op.Operator))
	}
}

// IsInputError сообщает, что ошибка вызвана входными данными пакета
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidJSON) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidOperandCount) ||
		errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrUnknownOperator)
}
