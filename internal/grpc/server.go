package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"batch-calculator/internal/calculator"
	"batch-calculator/internal/logger"
)

// CalculatorService имплементирует CalculatorServiceServer
type CalculatorService struct{}

// Calculate вычисляет пакет операций, присланный клиентом
func (s *CalculatorService) Calculate(ctx context.Context, req *structpb.ListValue) (*structpb.Struct, error) {
	operations, err := ListToOperations(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	logger.LogINFO(fmt.Sprintf("gRPC: получен пакет из %d операций", len(operations)))

	results, err := calculator.RunOperations(operations)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp, err := ResultsToStruct(results)
	if err != nil {
		logger.LogERROR("Ошибка кодирования результата: " + err.Error())
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

// loggingInterceptor пишет в журнал длительность и код завершения вызова
func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	if code != codes.OK && !calculator.IsInputError(statusError(err)) {
		logger.LogERROR(fmt.Sprintf("gRPC %s: %s (%v)", info.FullMethod, err, time.Since(start)))
	} else {
		logger.LogINFO(fmt.Sprintf("gRPC %s: %s (%v)", info.FullMethod, code, time.Since(start)))
	}
	return resp, err
}

// NewServer создает gRPC сервер с зарегистрированным CalculatorService
func NewServer() *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor))
	RegisterCalculatorServiceServer(s, &CalculatorService{})
	return s
}

// StartGRPCServer запускает gRPC сервер на указанном адресе и возвращает экземпляр сервера
func StartGRPCServer(address string) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	s := NewServer()

	logger.INFO.Printf("gRPC сервер запущен на %s", address)

	go func() {
		if err := s.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			logger.ERROR.Printf("Ошибка gRPC сервера: %v", err)
		}
	}()

	return s, nil
}
