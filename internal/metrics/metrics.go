// Package metrics chứa các collector Prometheus của server và middleware Fiber đo request.
package metrics

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        prometheus.Gauge
	integrityConflicts  *prometheus.CounterVec
	rbacMutations       *prometheus.CounterVec
)

// Register khởi tạo collectors (một lần) trên registry chỉ định (nil = DefaultRegisterer)
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Tổng số request đã xử lý",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Thời gian xử lý request",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Số request đang xử lý",
		})

		integrityConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rbac_integrity_conflicts_total",
			Help: "Số thao tác bị từ chối do vi phạm ràng buộc (409)",
		}, []string{"path"})

		rbacMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rbac_mutations_total",
			Help: "Số thao tác ghi thành công theo entity và loại thao tác",
		}, []string{"entity", "operation"})

		for _, c := range []prometheus.Collector{httpRequestsTotal, httpRequestDuration, httpInflight, integrityConflicts, rbacMutations} {
			if err := registerCollector(reg, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	return metricsErr
}

// registerCollector đăng ký collector, bỏ qua lỗi đã đăng ký
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	return nil
}

// Middleware đo số request, độ trễ và request đang xử lý.
// Nhãn path là route đã khớp (ví dụ /api/v1/users/:usercode) để tránh bùng nổ cardinality.
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if httpRequestsTotal == nil {
			return c.Next()
		}

		httpInflight.Inc()
		start := time.Now()
		err := c.Next()
		httpInflight.Dec()

		method := strings.ToUpper(c.Method())
		path := routeLabel(c)
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		return err
	}
}

// routeLabel trả về route pattern, hoặc "unmatched" nếu không khớp route nào
func routeLabel(c fiber.Ctx) string {
	route := c.Route()
	if route == nil || route.Path == "" || route.Path == "/" && c.Path() != "/" {
		return "unmatched"
	}
	return route.Path
}

// RecordIntegrityConflict tăng bộ đếm conflict cho route
func RecordIntegrityConflict(path string) {
	if integrityConflicts != nil {
		integrityConflicts.WithLabelValues(path).Inc()
	}
}

// RecordMutation tăng bộ đếm thao tác ghi
func RecordMutation(entity, operation string) {
	if rbacMutations != nil {
		rbacMutations.WithLabelValues(entity, operation).Inc()
	}
}

// Handler trả về handler Fiber cho /metrics
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
