package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"printshop/m/domain"
	"printshop/m/internal/auth"
	"printshop/m/internal/inventory"
	"printshop/m/internal/logging"
	"printshop/m/internal/storefront"
	"printshop/m/internal/telemetry"
	"printshop/m/internal/users"
)

type InventoryService interface {
	List(ctx context.Context, q inventory.ListQuery) (inventory.Page, error)
	Search(ctx context.Context, q inventory.ListQuery) (inventory.Page, error)
	Get(ctx context.Context, id int64) (domain.InventoryItem, error)
	Create(ctx context.Context, req inventory.CreateRequest, createdBy *int64) (domain.InventoryItem, error)
	AdjustQuantity(ctx context.Context, id int64, quantity *float64, operation string, createdBy *int64) (domain.InventoryItem, error)
	BatchAdjust(ctx context.Context, items []inventory.BatchItem, createdBy *int64) ([]domain.InventoryItem, error)
	Delete(ctx context.Context, id int64) error
	LowStock(ctx context.Context, threshold float64) ([]domain.InventoryItem, error)
	LowStockThreshold() float64
	Stats(ctx context.Context) (domain.InventoryStats, error)
	History(ctx context.Context, id int64) ([]domain.InventoryMovement, error)
}

type UserService interface {
	Register(ctx context.Context, req users.RegisterRequest) (domain.User, error)
	Login(ctx context.Context, email, password string) (users.AuthResult, error)
	ListCompanies(ctx context.Context) ([]domain.User, error)
	SetApproval(ctx context.Context, userID int64, status string) error
	ListEmployees(ctx context.Context) ([]domain.User, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type StorefrontService interface {
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, slug string) (domain.Product, error)
	QuoteCart(ctx context.Context, req storefront.CartRequest) (storefront.Quote, error)
	SubmitPrintOrder(ctx context.Context, req storefront.PrintOrderRequest) (domain.PrintOrder, error)
	ListPrintOrders(ctx context.Context, status string) ([]domain.PrintOrder, error)
	SetPrintOrderStatus(ctx context.Context, id int64, status string) error
}

// Config bundles dependencies for HTTP handlers.
type Config struct {
	Inventory   InventoryService
	Users       UserService
	Storefront  StorefrontService
	Tokens      *auth.TokenManager
	Logger      *zap.Logger
	CORSOrigins []string

	// TracerProvider enables request tracing when set.
	TracerProvider trace.TracerProvider
}

type Handler struct {
	inventory   InventoryService
	users       UserService
	storefront  StorefrontService
	tokens      *auth.TokenManager
	logger      *zap.Logger
	corsOrigins []string
	tracer      trace.TracerProvider
}

// New constructs a Handler.
func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{
		inventory:   cfg.Inventory,
		users:       cfg.Users,
		storefront:  cfg.Storefront,
		tokens:      cfg.Tokens,
		logger:      logger,
		corsOrigins: origins,
		tracer:      cfg.TracerProvider,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	if h.tracer != nil {
		r.Use(telemetry.Middleware("printshop", h.tracer, "/health"))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	r.Get("/products", h.listProducts)
	r.Get("/products/{slug}", h.getProduct)
	r.Post("/cart/quote", h.quoteCart)
	r.Post("/orders/custom", h.submitPrintOrder)

	r.Group(func(admin chi.Router) {
		admin.Use(h.tokens.Authenticate(h.fail))
		admin.Use(auth.RequireRole(h.fail, domain.RoleAdmin))

		admin.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.listInventory)
			r.Post("/", h.createInventory)
			r.Get("/filter", h.filterInventory)
			r.Get("/search", h.searchInventory)
			r.Get("/low-stock", h.lowStock)
			r.Get("/stats", h.inventoryStats)
			r.Put("/batch", h.batchUpdate)
			r.Get("/{id}", h.getInventory)
			r.Delete("/{id}", h.deleteInventory)
			r.Patch("/{id}/quantity", h.updateQuantity)
			r.Get("/{id}/history", h.inventoryHistory)
		})

		admin.Route("/users", func(r chi.Router) {
			r.Get("/companies", h.listCompanies)
			r.Post("/companies/approval", h.setApproval)
			r.Get("/employees", h.listEmployees)
			r.Delete("/employees/{id}", h.deleteEmployee)
		})

		admin.Get("/orders/custom", h.listPrintOrders)
		admin.Patch("/orders/custom/{id}/status", h.setPrintOrderStatus)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
