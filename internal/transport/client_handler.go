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

// CreateClientRequest represents the client creation payload
type CreateClientRequest struct {
	Nom   string `json:"nom" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	VIP   bool   `json:"vip"`
}

// UpdateClientRequest represents the partial client update payload.
// Nil fields are left untouched.
type UpdateClientRequest struct {
	Nom   *string `json:"nom" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	VIP   *bool   `json:"vip"`
}

// UpdateResponse reports the number of rows changed by an update
type UpdateResponse struct {
	ChangedRows int64 `json:"changed_rows"`
}

// DeleteResponse reports the number of rows removed by a delete
type DeleteResponse struct {
	DeletedRows int64 `json:"deleted_rows"`
}

// ClientHandler handles HTTP requests for client operations
type ClientHandler struct {
	clientService service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// RegisterRoutes registers all client routes
func (h *ClientHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/clients", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles paginated client search
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.clientService.List(r.Context(), search, page, limit)
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Get handles fetching a single client
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	client, err := h.clientService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, client)
}

// Create handles client creation
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Client validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := h.clientService.Create(r.Context(), req.Nom, req.Email, req.VIP)
	if err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyUsed) {
			middleware.RespondWithError(w, http.StatusConflict, "email already used")
			return
		}
		h.logger.Error("Client creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	h.logger.Info("Client created", zap.Int64("client_id", client.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, client)
}

// Update handles partial client updates
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var req UpdateClientRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Client update validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := repository.ClientUpdate{
		Nom:   req.Nom,
		Email: req.Email,
		VIP:   req.VIP,
	}

	changed, err := h.clientService.Update(r.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFieldsToUpdate):
			middleware.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		case errors.Is(err, repository.ErrEmailAlreadyUsed):
			middleware.RespondWithError(w, http.StatusConflict, "email already used")
		default:
			h.logger.Error("Client update failed", zap.Error(err), zap.Int64("client_id", id))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update client")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UpdateResponse{ChangedRows: changed})
}

// Delete handles client deletion, blocked while orders reference it
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	deleted, err := h.clientService.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClientNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "client not found")
		case errors.Is(err, repository.ErrClientHasOrders):
			middleware.RespondWithError(w, http.StatusConflict, "cannot delete client with orders")
		default:
			h.logger.Error("Client deletion failed", zap.Error(err), zap.Int64("client_id", id))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete client")
		}
		return
	}

	h.logger.Info("Client deleted", zap.Int64("client_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, DeleteResponse{DeletedRows: deleted})
}
