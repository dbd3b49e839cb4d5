package http

import (
	"net/http"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/service"

	"github.com/gorilla/mux"
)

// NotificationHandler exposes the per-customer notification feed.
type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) Register(r *mux.Router) {
	r.HandleFunc("/customers/{ref}/notifications", h.ListNotifications).Methods(http.MethodGet)
}

type listNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int32                 `json:"total"`
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseInt32(q.Get("page"), 1)
	pageSize := parseInt32(q.Get("page_size"), 20)

	notes, total, err := h.noteSvc.ListNotifications(r.Context(), mux.Vars(r)["ref"], page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, listNotificationsResponse{Notifications: notes, Total: total})
}
