package transport

import (
	"errors"
	"net/http"
	"strconv"

	"boutique-api/internal/middleware"
	"boutique-api/internal/repository"
	"boutique-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Titre     string  `json:"titre" validate:"required"`
	Categorie string  `json:"categorie" validate:"required"`
	Prix      float64 `json:"prix" validate:"gte=0"`
	Stock     int     `json:"stock" validate:"gte=0"`
}

// AdjustStockRequest represents the stock adjustment payload. Adjust
// is a pointer so that an explicit zero survives required-validation.
type AdjustStockRequest struct {
	Adjust *int `json:"adjust" validate:"required"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/produits", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/categories", h.ListCategories)
		r.Get("/{id}", h.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}/stock", h.AdjustStock)
		})
	})
}

// List handles filtered product listing
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{Sort: r.URL.Query().Get("sort")}

	if categorie := r.URL.Query().Get("categorie"); categorie != "" {
		filter.Categorie = &categorie
	}
	if raw := r.URL.Query().Get("minPrix"); raw != "" {
		minPrix, err := strconv.ParseFloat(raw, 64)
		if err != nil || minPrix < 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid minPrix")
			return
		}
		filter.MinPrix = &minPrix
	}
	if raw := r.URL.Query().Get("maxPrix"); raw != "" {
		maxPrix, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrix < 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid maxPrix")
			return
		}
		filter.MaxPrix = &maxPrix
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListCategories handles listing the distinct catalog categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Get handles fetching a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), req.Titre, req.Categorie, req.Prix, req.Stock)
	if err != nil {
		h.logger.Error("Product creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// AdjustStock handles atomic stock adjustment
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req AdjustStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Stock adjustment validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	adjustment, err := h.productService.AdjustStock(r.Context(), id, *req.Adjust)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusConflict, "insufficient stock")
		case errors.Is(err, repository.ErrStockBusy):
			// Retryable: the row lock could not be acquired in time.
			w.Header().Set("Retry-After", "1")
			middleware.RespondWithError(w, http.StatusServiceUnavailable, "stock adjustment busy, retry later")
		default:
			h.logger.Error("Stock adjustment failed", zap.Error(err), zap.Int64("product_id", id))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to adjust stock")
		}
		return
	}

	h.logger.Info("Stock adjusted",
		zap.Int64("product_id", id),
		zap.Int("delta", *req.Adjust),
		zap.Int("new_stock", adjustment.Stock),
	)
	middleware.RespondWithJSON(w, http.StatusOK, adjustment)
}
