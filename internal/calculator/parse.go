package calculator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ParseOperations разбирает JSON-массив операций.
// Синтаксические ошибки дают ErrInvalidJSON, всё остальное ErrInvalidInput
func ParseOperations(data []byte) ([]Operation, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrInvalidJSON
	}

	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, ErrInvalidInput
	}

	var operations []Operation
	if err := json.Unmarshal(raw, &operations); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: field %q has type %s", ErrInvalidInput, typeErr.Field, typeErr.Value)
		}
		return nil, ErrInvalidInput
	}

	if operations == nil {
		operations = []Operation{}
	}
	return operations, nil
}

// UnmarshalJSON разбирает операнды как числа JSON.
// Слишком большие по модулю числа становятся ±Inf, null и прочие значения отклоняются
func (op *Operation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Operator Operator          `json:"operator"`
		Operands []json.RawMessage `json:"operands"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var operands []float64
	if raw.Operands != nil {
		operands = make([]float64, len(raw.Operands))
	}
	for i, item := range raw.Operands {
		v, err := parseNumber(item)
		if err != nil {
			return fmt.Errorf("%w: operand %d is %s", ErrInvalidInput, i, item)
		}
		operands[i] = v
	}

	op.Operator = raw.Operator
	op.Operands = operands
	return nil
}

func parseNumber(item json.RawMessage) (float64, error) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 || (item[0] != '-' && (item[0] < '0' || item[0] > '9')) {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(string(item), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return v, nil
}
