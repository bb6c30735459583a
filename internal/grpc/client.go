package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"batch-calculator/internal/calculator"
	"batch-calculator/internal/logger"
)

// Ошибки вычисления, которые сервер передает текстом статуса InvalidArgument
var remoteErrors = []error{
	calculator.ErrInvalidOperandCount,
	calculator.ErrDivisionByZero,
	calculator.ErrUnknownOperator,
	calculator.ErrInvalidInput,
	calculator.ErrInvalidJSON,
}

// GRPCCalculatorClient gRPC клиент CalculatorService
type GRPCCalculatorClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewGRPCCalculatorClient создает клиент. Без опций используется незащищенный канал
func NewGRPCCalculatorClient(address string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCCalculatorClient, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.Dial(address, opts...)
	if err != nil {
		return nil, err
	}

	return &GRPCCalculatorClient{
		conn:    conn,
		timeout: timeout,
	}, nil
}

// Close закрывает соединение с сервером
func (c *GRPCCalculatorClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Calculate отправляет пакет на сервер и возвращает результаты в исходном порядке
func (c *GRPCCalculatorClient) Calculate(ctx context.Context, operations []calculator.Operation) ([]calculator.CalculationResult, error) {
	req, err := OperationsToList(operations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", calculator.ErrInvalidInput, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	logger.LogINFO(fmt.Sprintf("Sending batch of %d operations over gRPC", len(operations)))

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, calculateMethod, req, resp); err != nil {
		logger.LogERROR(fmt.Sprintf("gRPC call failed: %v", err))
		return nil, statusError(err)
	}

	return StructToResults(resp)
}

// statusError восстанавливает ошибку калькулятора из статуса InvalidArgument
func statusError(err error) error {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		return err
	}

	msg := st.Message()
	for _, sentinel := range remoteErrors {
		if strings.HasPrefix(msg, sentinel.Error()) {
			return fmt.Errorf("%w%s", sentinel, strings.TrimPrefix(msg, sentinel.Error()))
		}
	}
	return errors.New(msg)
}
