package db

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCalculation(t *testing.T) {
	InitTest(t)

	user, err := CreateUser("calc_user", "password")
	require.NoError(t, err)

	input := `[{"operator":"add","operands":[2,3]},{"operator":"multiply","operands":[1e308,2]}]`
	results := []CalculationResult{
		{Operation: "add(2, 3)", Result: 5},
		{Operation: "multiply(1e+308, 2)", Result: math.Inf(1)},
	}

	calc, err := CreateCalculation(user.ID, input, results)
	require.NoError(t, err)

	_, err = uuid.Parse(calc.ID)
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, calc.Status)
	assert.Nil(t, calc.ErrorMessage)

	saved, err := GetCalculationByID(calc.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, saved.UserID)
	assert.Equal(t, input, saved.Input)
	assert.Equal(t, StatusCompleted, saved.Status)
	assert.WithinDuration(t, calc.CreatedAt, saved.CreatedAt, time.Second)
	require.Len(t, saved.Results, 2)
	assert.Equal(t, CalculationResult{Position: 0, Operation: "add(2, 3)", Result: 5}, saved.Results[0])
	assert.Equal(t, 1, saved.Results[1].Position)
	assert.True(t, math.IsInf(saved.Results[1].Result, 1))
}

func TestCreateCalculationKeepsNaN(t *testing.T) {
	InitTest(t)

	user, err := CreateUser("nan_user", "password")
	require.NoError(t, err)

	calc, err := CreateCalculation(user.ID, "[]", []CalculationResult{{Operation: "add(Infinity, -Infinity)", Result: math.NaN()}})
	require.NoError(t, err)

	saved, err := GetCalculationByID(calc.ID)
	require.NoError(t, err)
	require.Len(t, saved.Results, 1)
	assert.True(t, math.IsNaN(saved.Results[0].Result))
}

func TestCreateFailedCalculation(t *testing.T) {
	InitTest(t)

	user, err := CreateUser("failed_user", "password")
	require.NoError(t, err)

	calc, err := CreateFailedCalculation(user.ID, `[{"operator":"divide","operands":[1,0]}]`, "Division by zero")
	require.NoError(t, err)

	saved, err := GetCalculationByID(calc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusError, saved.Status)
	require.NotNil(t, saved.ErrorMessage)
	assert.Equal(t, "Division by zero", *saved.ErrorMessage)
	assert.Empty(t, saved.Results)
}

func TestGetCalculationByIDNotFound(t *testing.T) {
	InitTest(t)

	_, err := GetCalculationByID(uuid.NewString())
	assert.ErrorIs(t, err, ErrCalculationNotFound)
}

func TestGetUserCalculations(t *testing.T) {
	InitTest(t)

	user, err := CreateUser("history_user", "password")
	require.NoError(t, err)
	other, err := CreateUser("other_user", "password")
	require.NoError(t, err)

	first, err := CreateCalculation(user.ID, "first", []CalculationResult{{Operation: "add(1, 1)", Result: 2}})
	require.NoError(t, err)
	second, err := CreateFailedCalculation(user.ID, "second", "Division by zero")
	require.NoError(t, err)
	_, err = CreateCalculation(other.ID, "foreign", nil)
	require.NoError(t, err)

	calculations, err := GetUserCalculations(user.ID)
	require.NoError(t, err)
	require.Len(t, calculations, 2)

	// Новые первыми
	assert.Equal(t, second.ID, calculations[0].ID)
	assert.Equal(t, first.ID, calculations[1].ID)
	require.Len(t, calculations[1].Results, 1)
	assert.Equal(t, 2.0, calculations[1].Results[0].Result)

	empty, err := GetUserCalculations(999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
