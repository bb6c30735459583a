package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"batch-calculator/internal/calculator"
	"batch-calculator/internal/config"
	"batch-calculator/internal/grpc"
	"batch-calculator/internal/logger"
)

type output struct {
	Results []calculator.CalculationResult `json:"results"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var address string
	// Ошибка конфигурации прерывает только удалённый режим
	if err := config.InitConfig(".env"); err != nil {
		address = os.Getenv("CALCULATOR_GRPC_ADDR")
		if address != "" {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		config.AppConfig = &config.Config{}
		logger.InitCLILogger()
		logger.LogERROR(fmt.Sprintf("Ignoring config in local mode: %v", err))
	} else {
		address = config.AppConfig.GRPCAddress
		logger.InitCLILogger()
	}
	defer logger.CloseLogger()

	if len(args) == 0 || args[0] == "" {
		fmt.Fprintln(stderr, "Usage: calculator '<json_operations>'")
		fmt.Fprintln(stderr, `Example: calculator '[{"operator":"add","operands":[1,2,3]}]'`)
		return 1
	}

	operations, err := calculator.ParseOperations([]byte(args[0]))
	if err != nil {
		logger.LogERROR(fmt.Sprintf("Failed to parse input: %v", err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	results, err := evaluate(operations, address)
	if err != nil {
		logger.LogERROR(fmt.Sprintf("Failed to evaluate batch: %v", err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	data, err := json.MarshalIndent(output{Results: results}, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))

	logger.LogINFO(fmt.Sprintf("Evaluated %d operations", len(results)))
	return 0
}

// evaluate вычисляет пакет локально или на сервере address
func evaluate(operations []calculator.Operation, address string) ([]calculator.CalculationResult, error) {
	if address == "" {
		return calculator.RunOperations(operations)
	}

	logger.LogINFO("Using remote calculator at " + address)
	client, err := grpc.NewGRPCCalculatorClient(address, config.AppConfig.GRPCTimeout)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.Calculate(context.Background(), operations)
}
