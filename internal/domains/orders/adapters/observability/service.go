package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	ordersports "github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
)

const tracerName = "github.com/minimarket/go-gin-shop-server/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, buyerID int64, lines []ordersports.LineRequest) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.Int64("order.buyer_id", buyerID), attribute.Int("order.line_count", len(lines))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("buyer_id", buyerID), slog.Int("lines", len(lines)))
	result, err := s.inner.PlaceOrder(ctx, buyerID, lines)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("buyer_id", buyerID))
	}
	s.metrics.recordPlaced(ctx, result.Status)
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.logInfo(ctx, "order placed",
		slog.Int64("order_id", result.ID),
		slog.String("number", result.Number),
		slog.String("total", result.Total.String()))
	return result, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order_id", id))
	}
	return result, nil
}

func (s *Service) CustomerOrders(ctx context.Context, userID int64) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CustomerOrders", trace.WithAttributes(attribute.Int64("order.user_id", userID)))
	defer span.End()

	result, err := s.inner.CustomerOrders(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load customer orders", slog.Int64("user_id", userID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) AllOrders(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AllOrders")
	defer span.End()

	result, err := s.inner.AllOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) RefundOrder(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.RefundOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "refunding order", slog.Int64("order_id", id))
	result, err := s.inner.RefundOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to refund order", slog.Int64("order_id", id))
	}
	s.metrics.recordRefunded(ctx)
	s.logInfo(ctx, "order refunded", slog.Int64("order_id", id))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	ordersRefunded metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	ordersRefunded, _ := m.Int64Counter("orders.service.refunded", metric.WithDescription("Number of orders refunded"))
	return serviceMetrics{ordersPlaced: ordersPlaced, ordersRefunded: ordersRefunded}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status ordersdomain.Status) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordRefunded(ctx context.Context) {
	if m.ordersRefunded != nil {
		m.ordersRefunded.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
