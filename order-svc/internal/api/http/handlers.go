package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/service"
	"github.com/lemon630/order-meal/order-svc/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	sessionCookie = "sid"
	sessionHeader = "X-Session-ID"
	maxUploadSize = 10 << 20
)

type Handler struct {
	Catalog  service.CatalogServiceInterface
	Orders   service.OrderServiceInterface
	Stats    service.StatsServiceInterface
	Sessions *session.Manager
	QR       service.QRGenerator
	Receipts *service.ReceiptPrinter
}

func NewHandler(catalog service.CatalogServiceInterface, orders service.OrderServiceInterface, stats service.StatsServiceInterface, sessions *session.Manager, qr service.QRGenerator, receipts *service.ReceiptPrinter) *Handler {
	return &Handler{
		Catalog:  catalog,
		Orders:   orders,
		Stats:    stats,
		Sessions: sessions,
		QR:       qr,
		Receipts: receipts,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/session", h.openSession).Methods("GET")
	r.HandleFunc("/api/session/events", h.sessionEvent).Methods("POST")

	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/menu/{id:[0-9]+}", h.getDish).Methods("GET")
	r.HandleFunc("/api/categories", h.getCategories).Methods("GET")
	r.HandleFunc("/api/tables/{table}/qrcode", h.getTableQRCode).Methods("GET")

	r.HandleFunc("/api/menu", h.requireAdmin(h.createDish)).Methods("POST")
	r.HandleFunc("/api/menu/upload", h.requireAdmin(h.uploadDish)).Methods("POST")
	r.HandleFunc("/api/menu/images", h.requireAdmin(h.embedImage)).Methods("POST")
	r.HandleFunc("/api/menu/{id:[0-9]+}", h.requireAdmin(h.deleteDish)).Methods("DELETE")

	r.HandleFunc("/api/orders", h.requireAdmin(h.getOrders)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}", h.requireAdmin(h.getOrder)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}/complete", h.requireAdmin(h.completeOrder)).Methods("PUT")
	r.HandleFunc("/api/orders/{id:[0-9]+}/receipt", h.requireAdmin(h.getReceipt)).Methods("GET")
	r.HandleFunc("/api/stats/today", h.requireAdmin(h.getTodayStats)).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	table := 0
	if raw := r.URL.Query().Get("table"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid table", http.StatusBadRequest)
			return
		}
		table = n
	}

	sess, view, err := h.Sessions.Open(r.Context(), sessionID(r), table)
	if err != nil {
		log.Printf("[order-svc] open session: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	bindSession(w, sess.ID)
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) sessionEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := sessionID(r)
	if id == "" {
		id = uuid.New().String()
	}
	sess, view, err := h.Sessions.Handle(r.Context(), id, ev)
	if err != nil {
		if errors.Is(err, session.ErrUnknownAction) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("[order-svc] session %s: %s: %v", id, ev.Action, err)
		http.Error(w, "Failed to handle event", http.StatusInternalServerError)
		return
	}
	bindSession(w, sess.ID)
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.ListMenu(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, service.FilterMenu(items, q.Get("category"), q.Get("q")))
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	item, err := h.Catalog.GetDish(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.Catalog.AllowedCategories()
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	var dish domain.NewDish
	if err := json.NewDecoder(r.Body).Decode(&dish); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.Catalog.AddDish(r.Context(), dish)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// uploadDish resizes the uploaded picture, embeds it into the record and
// publishes the dish in one request.
func (h *Handler) uploadDish(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil {
		http.Error(w, "Invalid price", http.StatusBadRequest)
		return
	}
	item, err := h.Catalog.AddDish(r.Context(), domain.NewDish{
		Name:        r.FormValue("name"),
		Price:       price,
		Category:    r.FormValue("category"),
		Image:       img.DataURI,
		Description: r.FormValue("description"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) embedImage(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*service.EmbeddedImage, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return nil, false
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	width := 0
	if raw := r.FormValue("width"); raw != "" {
		if width, err = strconv.Atoi(raw); err != nil {
			http.Error(w, "Invalid width", http.StatusBadRequest)
			return nil, false
		}
	}

	img, err := h.Catalog.EmbedImage(file, width)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return img, true
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Catalog.DeleteDish(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListOrders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Orders.CompleteOrder(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	pdf, err := h.Receipts.Render(order)
	if err != nil {
		http.Error(w, "Failed to render receipt", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=order_%d.pdf", order.ID))
	w.Write(pdf)
}

func (h *Handler) getTodayStats(w http.ResponseWriter, r *http.Request) {
	if h.Stats == nil {
		http.Error(w, "Stats are not available", http.StatusServiceUnavailable)
		return
	}
	stats, err := h.Stats.Today(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getTableQRCode(w http.ResponseWriter, r *http.Request) {
	table, err := strconv.Atoi(mux.Vars(r)["table"])
	if err != nil || table < 1 || table > h.Orders.TableMax() {
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}
	png, err := h.QR.Generate(table)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// requireAdmin lets the request through only for a session that has logged in
// via the login event.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.Sessions.Get(r.Context(), sessionID(r))
		if err != nil || !sess.Admin {
			http.Error(w, service.ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get(sessionHeader)
}

func bindSession(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(sessionHeader, id)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDish),
		errors.Is(err, service.ErrImageDecode),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidTable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrDishNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		log.Printf("[order-svc] request failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
