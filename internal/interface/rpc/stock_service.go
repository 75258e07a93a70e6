// Package rpc 库存查询gRPC服务
//
// 服务只提供只读查询，供扫码枪、补货提醒等内部系统使用。
// 消息使用protobuf的通用类型（StringValue、Struct），不需要生成代码。
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName gRPC服务全名
const ServiceName = "warehouse.v1.StockService"

const (
	methodGetStock     = "/" + ServiceName + "/GetStock"
	methodListLowStock = "/" + ServiceName + "/ListLowStock"
)

// StockServiceServer 库存查询服务
type StockServiceServer interface {
	// GetStock 按SSID查询库存快照
	GetStock(ctx context.Context, ssid *wrapperspb.StringValue) (*structpb.Struct, error)
	// ListLowStock 低库存物料（按缺口从大到小）
	ListLowStock(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

// StockServiceDesc 服务描述，注册方式与protoc生成的代码一致
var StockServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StockServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStock", Handler: getStockHandler},
		{MethodName: "ListLowStock", Handler: listLowStockHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "warehouse/v1/stock.proto",
}

// RegisterStockServiceServer 注册服务实现
func RegisterStockServiceServer(s grpc.ServiceRegistrar, srv StockServiceServer) {
	s.RegisterService(&StockServiceDesc, srv)
}

func getStockHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServiceServer).GetStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetStock}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StockServiceServer).GetStock(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listLowStockHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StockServiceServer).ListLowStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodListLowStock}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StockServiceServer).ListLowStock(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// StockClient 库存查询客户端
type StockClient struct {
	cc grpc.ClientConnInterface
}

// NewStockClient 创建客户端
func NewStockClient(cc grpc.ClientConnInterface) *StockClient {
	return &StockClient{cc: cc}
}

// GetStock 按SSID查询库存
func (c *StockClient) GetStock(ctx context.Context, ssid string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetStock, wrapperspb.String(ssid), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLowStock 低库存物料
func (c *StockClient) ListLowStock(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodListLowStock, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentStock 查询当前库存和补货线
func (c *StockClient) CurrentStock(ctx context.Context, ssid string) (stock, reorderLevel int, err error) {
	out, err := c.GetStock(ctx, ssid)
	if err != nil {
		return 0, 0, err
	}
	fields := out.GetFields()
	return int(fields["current_stock"].GetNumberValue()), int(fields["reorder_level"].GetNumberValue()), nil
}
