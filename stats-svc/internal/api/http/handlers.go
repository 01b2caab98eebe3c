package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"groupcart/logger"
	"groupcart/stats-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Stats service.StatsServiceInterface
	log   *logger.Logger
}

func NewHandler(svc service.StatsServiceInterface, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{Stats: svc, log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "stats-svc"})
	}).Methods("GET")
	r.HandleFunc("/api/stats/restaurants/{restaurantId}", h.getRestaurantStats).Methods("GET")
	r.HandleFunc("/api/stats/restaurants/{restaurantId}/top-menus", h.getTopMenus).Methods("GET")
	r.HandleFunc("/api/stats/restaurants/{restaurantId}/today", h.getToday).Methods("GET")
}

func (h *Handler) getRestaurantStats(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := restaurantIDFrom(w, r)
	if !ok {
		return
	}
	stats, err := h.Stats.RestaurantStats(r.Context(), restaurantID)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getTopMenus(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := restaurantIDFrom(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	data, err := h.Stats.TopMenus(r.Context(), restaurantID, limit)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) getToday(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := restaurantIDFrom(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	data, err := h.Stats.TopMenusToday(r.Context(), restaurantID, limit)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.log.Error("stats request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
}

func restaurantIDFrom(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["restaurantId"])
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid restaurantId"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
