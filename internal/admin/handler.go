package admin

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the dashboard endpoints on the admin app.
type Handler struct {
	dashboard *CachedDashboard
}

// NewHandler creates an admin handler.
func NewHandler(dashboard *CachedDashboard) *Handler {
	return &Handler{dashboard: dashboard}
}

// RegisterRoutes registers dashboard routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/dashboard", h.DashboardMetrics)
	api.Get("/dashboard/metrics/:type", h.Metric)
}

// DashboardMetrics handles GET /api/dashboard.
func (h *Handler) DashboardMetrics(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Authorization token is required",
		})
	}

	query := MetricsQuery{
		TimePeriod:   c.Query("timePeriod", "weekly"),
		OrdersPage:   queryInt(c, "ordersPage", 1),
		ProductsPage: queryInt(c, "productsPage", 1),
		PageSize:     queryInt(c, "pageSize", 5),
	}

	payload, err := h.dashboard.DashboardMetrics(c.UserContext(), token, query)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load dashboard metrics",
		})
	}
	return sendRaw(c, payload)
}

// Metric handles GET /api/dashboard/metrics/:type.
func (h *Handler) Metric(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Authorization token is required",
		})
	}

	metricType := c.Params("type")
	payload, err := h.dashboard.Metric(c.UserContext(), token, metricType, c.Query("timePeriod", "weekly"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load metric",
		})
	}
	return sendRaw(c, payload)
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func sendRaw(c *fiber.Ctx, payload json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send([]byte(payload))
}
