package grpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"batch-calculator/internal/calculator"
)

// Сообщения сервиса описаны стандартными типами google.protobuf:
//
//	service CalculatorService {
//	  rpc Calculate(google.protobuf.ListValue) returns (google.protobuf.Struct);
//	}
const (
	CalculatorServiceName = "calculator.v1.CalculatorService"
	calculateMethod       = "/" + CalculatorServiceName + "/Calculate"
)

var ErrMalformedResponse = errors.New("malformed calculator response")

// CalculatorServiceServer серверная часть CalculatorService
type CalculatorServiceServer interface {
	Calculate(context.Context, *structpb.ListValue) (*structpb.Struct, error)
}

func RegisterCalculatorServiceServer(s grpc.ServiceRegistrar, srv CalculatorServiceServer) {
	s.RegisterService(&calculatorServiceDesc, srv)
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: CalculatorServiceName,
	HandlerType: (*CalculatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Calculate",
			Handler:    calculateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calculator/v1/calculator.proto",
}

func calculateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServiceServer).Calculate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: calculateMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServiceServer).Calculate(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

// OperationsToList кодирует пакет операций в ListValue
func OperationsToList(operations []calculator.Operation) (*structpb.ListValue, error) {
	items := make([]interface{}, len(operations))
	for i, op := range operations {
		operands := make([]interface{}, len(op.Operands))
		for j, v := range op.Operands {
			operands[j] = v
		}
		items[i] = map[string]interface{}{
			"operator": string(op.Operator),
			"operands": operands,
		}
	}
	return structpb.NewList(items)
}

// ListToOperations декодирует ListValue по тем же правилам, что и JSON-вход CLI.
// Числа берутся как есть, поэтому ±Inf доходят до вычислителя
func ListToOperations(list *structpb.ListValue) ([]calculator.Operation, error) {
	operations := make([]calculator.Operation, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		fields, ok := item.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is not an operation", calculator.ErrInvalidInput, i)
		}
		op, err := structToOperation(fields.StructValue)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", calculator.ErrInvalidInput, i, err)
		}
		operations = append(operations, op)
	}
	return operations, nil
}

func structToOperation(s *structpb.Struct) (calculator.Operation, error) {
	var op calculator.Operation

	if v, ok := s.GetFields()["operator"]; ok {
		operator, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return op, errors.New("operator is not a string")
		}
		op.Operator = calculator.Operator(operator.StringValue)
	}

	v, ok := s.GetFields()["operands"]
	if !ok {
		return op, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return op, nil
	}
	operands, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return op, errors.New("operands is not a list")
	}
	op.Operands = make([]float64, len(operands.ListValue.GetValues()))
	for j, operand := range operands.ListValue.GetValues() {
		number, ok := operand.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return op, fmt.Errorf("operand %d is not a number", j)
		}
		op.Operands[j] = number.NumberValue
	}
	return op, nil
}

// ResultsToStruct кодирует результаты в {"results": [...]}
func ResultsToStruct(results []calculator.CalculationResult) (*structpb.Struct, error) {
	items := make([]interface{}, len(results))
	for i, r := range results {
		items[i] = map[string]interface{}{
			"operation": r.Operation,
			"result":    r.Result,
		}
	}
	return structpb.NewStruct(map[string]interface{}{"results": items})
}

// StructToResults разбирает ответ сервиса
func StructToResults(s *structpb.Struct) ([]calculator.CalculationResult, error) {
	list := s.GetFields()["results"].GetListValue()
	if list == nil {
		return nil, ErrMalformedResponse
	}

	results := make([]calculator.CalculationResult, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		operation, ok := fields["operation"].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%w: result %d has no operation", ErrMalformedResponse, i)
		}
		result, ok := fields["result"].GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("%w: result %d has no value", ErrMalformedResponse, i)
		}
		results = append(results, calculator.CalculationResult{
			Operation: operation.StringValue,
			Result:    result.NumberValue,
		})
	}
	return results, nil
}
