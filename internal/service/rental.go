package service

import (
	"context"
	"fmt"
	"io"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/logger"
	"rentaldesk-backend/internal/repository"
	"rentaldesk-backend/internal/storage"
	"rentaldesk-backend/internal/workflow"

	"github.com/google/uuid"
)

type rentalWorkflowService struct {
	rentalRepo repository.RentalRepository
	docRepo    repository.DocumentRepository
	notifier   NotificationService
	docStore   storage.Interface
}

func NewRentalWorkflowService(
	rentalRepo repository.RentalRepository,
	docRepo repository.DocumentRepository,
	notifier NotificationService,
	docStore storage.Interface,
) RentalWorkflowService {
	return &rentalWorkflowService{
		rentalRepo: rentalRepo,
		docRepo:    docRepo,
		notifier:   notifier,
		docStore:   docStore,
	}
}

func (s *rentalWorkflowService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.RentalOrder, error) {
	if in.CustomerRef == "" {
		return nil, domain.NewValidationError("customer_ref", "is required")
	}
	if in.EquipmentRef == "" {
		return nil, domain.NewValidationError("equipment_ref", "is required")
	}
	if !in.StartDate.Before(in.EndDate) {
		return nil, domain.NewValidationError("end_date", "must be after start_date")
	}

	fin, err := settleFinancials(in.Financials)
	if err != nil {
		return nil, err
	}

	order := &domain.RentalOrder{
		CustomerRef:      in.CustomerRef,
		EquipmentRef:     in.EquipmentRef,
		Status:           domain.RentalStatusPending,
		PaymentStatus:    domain.PaymentStatusPending,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		DeliveryRequired: in.DeliveryRequired,
		DeliveryAddress:  in.DeliveryAddress,
		Financials:       fin,
		Notes:            in.Notes,
	}

	// Seed entry: history always starts with the order entering pending.
	seed := &domain.StatusHistoryEntry{
		NewStatus:         domain.RentalStatusPending,
		Notes:             "rental request created",
		ActorRef:          actorOrDefault(in.Actor),
		VisibleToCustomer: true,
	}

	if err := s.rentalRepo.Create(ctx, order, seed); err != nil {
		return nil, err
	}
	order.History = []domain.StatusHistoryEntry{*seed}

	logger.Info("Rental order created", "rental_id", order.ID, "customer_ref", order.CustomerRef, "equipment_ref", order.EquipmentRef)
	return order, nil
}

func (s *rentalWorkflowService) GetOrder(ctx context.Context, id int64) (*domain.RentalOrder, error) {
	order, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.rentalRepo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	order.History = history

	docs, err := s.docRepo.ListByRental(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Documents = docs

	return order, nil
}

func (s *rentalWorkflowService) ListOrders(ctx context.Context, customerRef, status string, page, pageSize int32) ([]domain.RentalOrder, int32, error) {
	if status != "" && !domain.RentalStatus(status).IsValid() {
		return nil, 0, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.rentalRepo.List(ctx, customerRef, status, page, pageSize)
}

func (s *rentalWorkflowService) RequestTransition(ctx context.Context, id int64, req TransitionRequest) (*domain.RentalOrder, error) {
	if !req.Target.IsValid() {
		return nil, domain.NewValidationError("target_status", fmt.Sprintf("unknown status %q", req.Target))
	}

	order, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Retries are safe: re-issuing a transition that already applied is a
	// success, not an error, and appends nothing to the history.
	if order.Status == req.Target {
		logger.Debug("Transition already applied", "rental_id", id, "status", order.Status)
		return order, nil
	}

	if err := workflow.Evaluate(order, req.Target, workflow.Options{PaymentWaived: req.PaymentWaived}); err != nil {
		return nil, err
	}

	entry := &domain.StatusHistoryEntry{
		PreviousStatus:    order.Status,
		NewStatus:         req.Target,
		Notes:             req.Notes,
		ActorRef:          actorOrDefault(req.Actor),
		VisibleToCustomer: req.VisibleToCustomer,
	}

	if err := s.rentalRepo.ApplyTransition(ctx, order, entry); err != nil {
		return nil, err
	}

	logger.Info("Rental transition applied",
		"rental_id", order.ID,
		"from", entry.PreviousStatus,
		"to", entry.NewStatus,
		"actor", entry.ActorRef)

	if entry.VisibleToCustomer && s.notifier != nil {
		s.notifier.NotifyStatusChange(ctx, order, entry)
	}

	return order, nil
}

func (s *rentalWorkflowService) Approve(ctx context.Context, id int64, actor, message string) (*domain.RentalOrder, error) {
	return s.RequestTransition(ctx, id, TransitionRequest{
		Target:            domain.RentalStatusApproved,
		Notes:             message,
		Actor:             actor,
		VisibleToCustomer: true,
	})
}

func (s *rentalWorkflowService) Reject(ctx context.Context, id int64, actor, reason string) (*domain.RentalOrder, error) {
	order, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Reject only applies to fresh requests; later cancellations go
	// through Cancel.
	if order.Status != domain.RentalStatusPending && order.Status != domain.RentalStatusCancelled {
		return nil, &domain.InvalidTransitionError{
			From:        order.Status,
			Target:      domain.RentalStatusCancelled,
			AllowedFrom: []domain.RentalStatus{domain.RentalStatusPending},
		}
	}
	return s.RequestTransition(ctx, id, TransitionRequest{
		Target:            domain.RentalStatusCancelled,
		Notes:             reason,
		Actor:             actor,
		VisibleToCustomer: true,
	})
}

func (s *rentalWorkflowService) Cancel(ctx context.Context, id int64, actor, reason string) (*domain.RentalOrder, error) {
	return s.RequestTransition(ctx, id, TransitionRequest{
		Target:            domain.RentalStatusCancelled,
		Notes:             reason,
		Actor:             actor,
		VisibleToCustomer: true,
	})
}

func (s *rentalWorkflowService) UpdateFinancials(ctx context.Context, id int64, f domain.Financials) (*domain.RentalOrder, error) {
	order, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, &domain.PreconditionFailedError{Reason: fmt.Sprintf("order is %s and can no longer be changed", order.Status)}
	}

	fin, err := settleFinancials(f)
	if err != nil {
		return nil, err
	}

	order.Financials = fin
	if err := s.rentalRepo.UpdateFinancials(ctx, order); err != nil {
		return nil, err
	}

	logger.Info("Rental financials updated", "rental_id", order.ID, "total_cents", order.Financials.TotalCents)
	return order, nil
}

func (s *rentalWorkflowService) AttachDocument(ctx context.Context, id int64, in AttachDocumentInput) (*domain.Document, error) {
	if in.Title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	if !in.Type.IsValid() {
		return nil, domain.NewValidationError("document_type", fmt.Sprintf("unknown document type %q", in.Type))
	}
	if in.Payload == nil {
		return nil, domain.NewValidationError("file", "is required")
	}

	order, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, &domain.PreconditionFailedError{Reason: fmt.Sprintf("documents cannot be attached to a %s order", order.Status)}
	}

	key := fmt.Sprintf("rental-%d-%s", order.ID, uuid.New().String())
	if err := s.docStore.Save(ctx, key, in.Payload); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		RentalID:          order.ID,
		Type:              in.Type,
		Title:             in.Title,
		VisibleToCustomer: in.VisibleToCustomer,
		ContentType:       in.ContentType,
		StorageKey:        key,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.docStore.Delete(ctx, key); delErr != nil {
			logger.Warn("Failed to clean up orphaned document payload", "key", key, "error", delErr)
		}
		return nil, err
	}

	logger.Info("Document attached", "rental_id", order.ID, "document_id", doc.ID, "document_type", doc.Type)
	return doc, nil
}

func (s *rentalWorkflowService) GetDocument(ctx context.Context, id, docID int64) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.docRepo.GetByID(ctx, id, docID)
	if err != nil {
		return nil, nil, err
	}
	ok, _, err := s.docStore.Exists(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		// Metadata row without a payload means the stored file is gone.
		logger.Warn("Document payload missing from storage", "rental_id", id, "document_id", docID, "key", doc.StorageKey)
		return nil, nil, domain.ErrNotFound
	}
	reader, err := s.docStore.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return doc, reader, nil
}

func (s *rentalWorkflowService) RemoveDocument(ctx context.Context, id, docID int64) error {
	doc, err := s.docRepo.GetByID(ctx, id, docID)
	if err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, id, docID); err != nil {
		return err
	}
	if err := s.docStore.Delete(ctx, doc.StorageKey); err != nil {
		logger.Warn("Failed to delete document payload", "key", doc.StorageKey, "error", err)
	}
	logger.Info("Document removed", "rental_id", id, "document_id", docID)
	return nil
}

// settleFinancials validates incoming money fields and derives the total.
// A caller-supplied total that disagrees with the sum of the fee fields is
// rejected rather than silently corrected.
func settleFinancials(f domain.Financials) (domain.Financials, error) {
	for field, v := range map[string]int64{
		"daily_rate_cents":       f.DailyRateCents,
		"subtotal_cents":         f.SubtotalCents,
		"delivery_fee_cents":     f.DeliveryFeeCents,
		"insurance_fee_cents":    f.InsuranceFeeCents,
		"security_deposit_cents": f.SecurityDepositCents,
		"late_fees_cents":        f.LateFeesCents,
		"damage_fees_cents":      f.DamageFeesCents,
	} {
		if v < 0 {
			return domain.Financials{}, domain.NewValidationError(field, "must not be negative")
		}
	}
	if f.TotalCents != 0 && !f.Consistent() {
		return domain.Financials{}, domain.NewValidationError("total_cents", "must equal the sum of the fee fields")
	}
	f.TotalCents = f.ComputeTotal()
	return f, nil
}

func actorOrDefault(actor string) string {
	if actor == "" {
		return "anonymous"
	}
	return actor
}
