package calculator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CalculationResult представляет результат одной операции из пакета
type CalculationResult struct {
	Operation string  `json:"operation"`
	Result    float64 `json:"result"`
}

// MarshalJSON записывает бесконечности и NaN как null
func (r CalculationResult) MarshalJSON() ([]byte, error) {
	var result *float64
	if !math.IsInf(r.Result, 0) && !math.IsNaN(r.Result) {
		result = &r.Result
	}
	return json.Marshal(struct {
		Operation string   `json:"operation"`
		Result    *float64 `json:"result"`
	}{
		Operation: r.Operation,
		Result:    result,
	})
}

// RunOperations вычисляет операции по порядку.
// Первая же ошибка прерывает весь пакет, частичные результаты не возвращаются
func RunOperations(operations []Operation) ([]CalculationResult, error) {
	results := make([]CalculationResult, 0, len(operations))
	for _, op := range operations {
		result, err := Calculate(op)
		if err != nil {
			return nil, err
		}
		results = append(results, CalculationResult{
			Operation: Label(op),
			Result:    result,
		})
	}
	return results, nil
}

// Label формирует подпись вида operator(op1, op2, ...)
func Label(op Operation) string {
	operands := make([]string, len(op.Operands))
	for i, v := range op.Operands {
		operands[i] = FormatNumber(v)
	}
	return string(op.Operator) + "(" + strings.Join(operands, ", ") + ")"
}

// FormatNumber печатает число так же, как Number.prototype.toString:
// кратчайшая запись, экспонента только вне диапазона [1e-6, 1e21)
func FormatNumber(v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// 1e-07 -> 1e-7
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	sign, digits := exponent[:1], strings.TrimLeft(exponent[1:], "0")
	return mantissa + "e" + sign + digits
}
