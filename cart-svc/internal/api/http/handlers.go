package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"groupcart/cart-svc/internal/domain"
	"groupcart/cart-svc/internal/service"
	"groupcart/logger"

	"github.com/gorilla/mux"
)

type Handler struct {
	Aggregates service.AggregateServiceInterface
	// LegacyRoutes enables the single-field delta endpoints.
	LegacyRoutes bool
	log          *logger.Logger
}

func NewHandler(aggregates service.AggregateServiceInterface, legacyRoutes bool, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		Aggregates:   aggregates,
		LegacyRoutes: legacyRoutes,
		log:          log,
	}
}

type deltaRequest struct {
	Delta *int64 `json:"delta"`
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/state", h.getState).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menus", h.getMenus).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menus/{menuId}/amount", h.applyCombinedDelta).Methods("PATCH")
	r.HandleFunc("/api/restaurants/{id}/checkout", h.checkout).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}/complete", h.checkout).Methods("POST")

	if h.LegacyRoutes {
		r.HandleFunc("/api/restaurants/{id}/pendingPrice", h.applyPriceDelta).Methods("PATCH")
		r.HandleFunc("/api/restaurants/{id}/menus/{menuId}/amountOrdered", h.applyItemDelta).Methods("PATCH")
	}

	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "cart-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Aggregates.ListRestaurants(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rest, err := h.Aggregates.GetRestaurant(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	state, err := h.Aggregates.ReadState(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) getMenus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	menus, err := h.Aggregates.ListMenus(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

func (h *Handler) applyCombinedDelta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	menuID, ok := pathID(w, r, "menuId")
	if !ok {
		return
	}
	delta, ok := decodeDelta(w, r)
	if !ok {
		return
	}
	result, err := h.Aggregates.ApplyCombinedDelta(r.Context(), id, menuID, int(delta))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) applyPriceDelta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	delta, ok := decodeDelta(w, r)
	if !ok {
		return
	}
	w.Header().Set("Deprecation", "true")
	state, err := h.Aggregates.ApplyPriceDelta(r.Context(), id, delta)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) applyItemDelta(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	menuID, ok := pathID(w, r, "menuId")
	if !ok {
		return
	}
	delta, ok := decodeDelta(w, r)
	if !ok {
		return
	}
	w.Header().Set("Deprecation", "true")
	menu, err := h.Aggregates.ApplyItemDelta(r.Context(), id, menuID, int(delta))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result, err := h.Aggregates.Checkout(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.Aggregates.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	qr, err := h.Aggregates.GetQRCode(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(qr) == 0 {
		writeMessage(w, http.StatusNotFound, "QR code not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidDelta):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func decodeDelta(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req deltaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return 0, false
	}
	if req.Delta == nil {
		writeMessage(w, http.StatusBadRequest, "delta is required")
		return 0, false
	}
	return *req.Delta, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
