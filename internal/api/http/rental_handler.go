package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/logger"
	"rentaldesk-backend/internal/service"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

// RentalHandler exposes the rental workflow engine over REST.
type RentalHandler struct {
	rentalSvc   service.RentalWorkflowService
	maxFileSize int64
}

func NewRentalHandler(rentalSvc service.RentalWorkflowService, maxFileSizeMB int64) *RentalHandler {
	return &RentalHandler{
		rentalSvc:   rentalSvc,
		maxFileSize: maxFileSizeMB << 20,
	}
}

// Register attaches all rental routes to the router.
func (h *RentalHandler) Register(r *mux.Router) {
	r.HandleFunc("/rentals", h.CreateRental).Methods(http.MethodPost)
	r.HandleFunc("/rentals", h.ListRentals).Methods(http.MethodGet)
	r.HandleFunc("/rentals/{id}", h.GetRental).Methods(http.MethodGet)
	r.HandleFunc("/rentals/{id}/transition", h.Transition).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/approve", h.Approve).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/reject", h.Reject).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/cancel", h.Cancel).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/financials", h.UpdateFinancials).Methods(http.MethodPut)
	r.HandleFunc("/rentals/{id}/documents", h.AttachDocument).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/documents/{docID}", h.DownloadDocument).Methods(http.MethodGet)
	r.HandleFunc("/rentals/{id}/documents/{docID}", h.RemoveDocument).Methods(http.MethodDelete)
}

type createRentalRequest struct {
	CustomerRef      string            `json:"customer_ref"`
	EquipmentRef     string            `json:"equipment_ref"`
	StartDate        string            `json:"start_date"`
	EndDate          string            `json:"end_date"`
	DeliveryRequired bool              `json:"delivery_required"`
	DeliveryAddress  string            `json:"delivery_address"`
	Financials       domain.Financials `json:"financials"`
	Notes            string            `json:"notes"`
}

func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, domain.NewValidationError("start_date", "must be a date in YYYY-MM-DD form"))
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(w, domain.NewValidationError("end_date", "must be a date in YYYY-MM-DD form"))
		return
	}

	order, err := h.rentalSvc.CreateOrder(r.Context(), service.CreateOrderInput{
		CustomerRef:      req.CustomerRef,
		EquipmentRef:     req.EquipmentRef,
		StartDate:        start,
		EndDate:          end,
		DeliveryRequired: req.DeliveryRequired,
		DeliveryAddress:  req.DeliveryAddress,
		Financials:       req.Financials,
		Notes:            req.Notes,
		Actor:            ActorFrom(r.Context()),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := rentalID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	order, err := h.rentalSvc.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type listRentalsResponse struct {
	Rentals []domain.RentalOrder `json:"rentals"`
	Total   int32                `json:"total"`
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseInt32(q.Get("page"), 1)
	pageSize := parseInt32(q.Get("page_size"), 20)

	orders, total, err := h.rentalSvc.ListOrders(r.Context(), q.Get("customer_ref"), q.Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.RentalOrder{}
	}
	writeJSON(w, http.StatusOK, listRentalsResponse{Rentals: orders, Total: total})
}

type transitionRequest struct {
	TargetStatus      string `json:"target_status"`
	Notes             string `json:"notes"`
	VisibleToCustomer bool   `json:"visible_to_customer"`
	PaymentWaived     bool   `json:"payment_waived"`
}

func (h *RentalHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := rentalID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	order, err := h.rentalSvc.RequestTransition(r.Context(), id, service.TransitionRequest{
		Target:            domain.RentalStatus(req.TargetStatus),
		Notes:             req.Notes,
		Actor:             ActorFrom(r.Context()),
		VisibleToCustomer: req.VisibleToCustomer,
		PaymentWaived:     req.PaymentWaived,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type messageRequest struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.verb(w, r, func(id int64, m messageRequest) (*domain.RentalOrder, error) {
		return h.rentalSvc.Approve(r.Context(), id, ActorFrom(r.Context()), m.Message)
	})
}

func (h *RentalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.verb(w, r, func(id int64, m messageRequest) (*domain.RentalOrder, error) {
		return h.rentalSvc.Reject(r.Context(), id, ActorFrom(r.Context()), m.Reason)
	})
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.verb(w, r, func(id int64, m messageRequest) (*domain.RentalOrder, error) {
		return h.rentalSvc.Cancel(r.Context(), id, ActorFrom(r.Context()), m.Reason)
	})
}

func (h *RentalHandler) verb(w http.ResponseWriter, r *http.Request, apply func(int64, messageRequest) (*domain.RentalOrder, error)) {
	id, err := rentalID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req messageRequest
	if r.Body != nil {
		// Empty bodies are fine for the convenience verbs.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	order, err := apply(id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *RentalHandler) UpdateFinancials(w http.ResponseWriter, r *http.Request) {
	id, err := rentalID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var f domain.Financials
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	order, err := h.rentalSvc.UpdateFinancials(r.Context(), id, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *RentalHandler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	id, err := rentalID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, domain.NewValidationError("file", "is required"))
		return
	}
	defer file.Close()

	doc, err := h.rentalSvc.AttachDocument(r.Context(), id, service.AttachDocumentInput{
		Type:              domain.DocumentType(r.FormValue("document_type")),
		Title:             r.FormValue("title"),
		VisibleToCustomer: r.FormValue("visible_to_customer") == "true",
		ContentType:       header.Header.Get("Content-Type"),
		Payload:           file,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *RentalHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, docID, err := documentIDs(r)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, reader, err := h.rentalSvc.GetDocument(r.Context(), id, docID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer reader.Close()

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Title+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		// Headers are already out; nothing left to do but log.
		logger.Debug("Document stream interrupted", "rental_id", id, "document_id", docID, "error", err)
	}
}

func (h *RentalHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	id, docID, err := documentIDs(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rentalSvc.RemoveDocument(r.Context(), id, docID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func rentalID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("id", "must be an integer")
	}
	return id, nil
}

func documentIDs(r *http.Request) (int64, int64, error) {
	id, err := rentalID(r)
	if err != nil {
		return 0, 0, err
	}
	docID, err := strconv.ParseInt(mux.Vars(r)["docID"], 10, 64)
	if err != nil {
		return 0, 0, domain.NewValidationError("docID", "must be an integer")
	}
	return id, docID, nil
}

func parseInt32(s string, fallback int32) int32 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}
