package rpc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	appitem "github.com/xiebiao/warehouse/internal/application/item"
	appreport "github.com/xiebiao/warehouse/internal/application/report"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
	"github.com/xiebiao/warehouse/pkg/metrics"
)

// ErrorDomain ErrorInfo中的错误域
const ErrorDomain = "warehouse"

// StockServer 库存查询服务实现
// 复用HTTP接口的应用层用例，缓存和低库存规则保持一致
type StockServer struct {
	queryUseCase  *appitem.QueryItemUseCase
	reportUseCase *appreport.UseCase
}

// NewStockServer 创建服务实现
func NewStockServer(queryUseCase *appitem.QueryItemUseCase, reportUseCase *appreport.UseCase) *StockServer {
	return &StockServer{queryUseCase: queryUseCase, reportUseCase: reportUseCase}
}

// GetStock 按SSID查询库存快照
func (s *StockServer) GetStock(ctx context.Context, ssid *wrapperspb.StringValue) (*structpb.Struct, error) {
	if ssid.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "ssid不能为空")
	}

	snap, err := s.queryUseCase.GetStockBySSID(ctx, ssid.GetValue())
	if err != nil {
		return nil, ToStatus(err)
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"item_id":       snap.ItemID,
		"ssid":          snap.SSID,
		"name":          snap.Name,
		"unit":          snap.Unit,
		"current_stock": snap.CurrentStock,
		"reorder_level": snap.ReorderLevel,
		"is_low_stock":  snap.IsLowStock,
		"warehouse":     snap.Warehouse,
		"category":      snap.Category,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "编码库存快照失败: %v", err)
	}
	return out, nil
}

// ListLowStock 低库存物料
func (s *StockServer) ListLowStock(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	report, err := s.reportUseCase.LowStock(ctx, 0)
	if err != nil {
		return nil, ToStatus(err)
	}

	items := make([]interface{}, 0, len(report.Items))
	for _, e := range report.Items {
		items = append(items, map[string]interface{}{
			"item_id":       e.ID,
			"ssid":          e.SSID,
			"name":          e.Name,
			"current_stock": e.CurrentStock,
			"reorder_level": e.ReorderLevel,
			"shortage":      e.Shortage,
			"warehouse_id":  e.WarehouseID,
		})
	}
	out, err := structpb.NewStruct(map[string]interface{}{
		"items": items,
		"count": report.Count,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "编码低库存列表失败: %v", err)
	}
	return out, nil
}

// ToStatus 业务错误 → gRPC状态
// 业务码放在ErrorInfo.Reason里，Details放在Metadata里
func ToStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	appErr := apperrors.GetAppError(err)

	st := status.New(grpcCode(appErr.Code), appErr.Message)
	info := &errdetails.ErrorInfo{
		Reason:   strconv.Itoa(appErr.Code),
		Domain:   ErrorDomain,
		Metadata: make(map[string]string, len(appErr.Details)),
	}
	for k, v := range appErr.Details {
		info.Metadata[k] = fmt.Sprint(v)
	}
	if detailed, derr := st.WithDetails(info); derr == nil {
		st = detailed
	}
	return st.Err()
}

// grpcCode 按业务码区间映射
func grpcCode(code int) codes.Code {
	switch {
	case code == apperrors.ErrCodeForbidden:
		return codes.PermissionDenied
	case code == apperrors.ErrCodeDatabaseError:
		return codes.Unavailable
	case code == apperrors.ErrCodeStockConflict:
		return codes.Aborted
	case code >= 40100 && code < 40200:
		return codes.Unauthenticated
	case code >= 40400 && code < 40500:
		return codes.NotFound
	case code >= 40900 && code < 41000:
		return codes.InvalidArgument
	case code >= 40000 && code < 40100:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// UnaryInterceptor 记录调用日志和指标
func UnaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		metrics.RecordGRPC(info.FullMethod, code.String())
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("latency", time.Since(start)),
		}
		if code == codes.Internal || code == codes.Unavailable {
			logger.Error("grpc request", append(fields, zap.Error(err))...)
		} else {
			logger.Info("grpc request", fields...)
		}
		return resp, err
	}
}

// NewServer 创建gRPC服务器：库存服务 + 健康检查（+ 可选的反射）
func NewServer(stock StockServiceServer, logger *zap.Logger, enableReflection bool) *grpc.Server {
	metrics.InitMetrics()
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryInterceptor(logger)))

	RegisterStockServiceServer(srv, stock)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthServer)

	if enableReflection {
		reflection.Register(srv)
	}
	return srv
}
