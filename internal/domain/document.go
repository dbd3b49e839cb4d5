package domain

import "time"

type DocumentType string

const (
	DocumentTypeRentalAgreement   DocumentType = "rental_agreement"
	DocumentTypeOperatingManual   DocumentType = "operating_manual"
	DocumentTypeInsuranceDocument DocumentType = "insurance_document"
	DocumentTypeDeliveryReceipt   DocumentType = "delivery_receipt"
	DocumentTypeReturnReceipt     DocumentType = "return_receipt"
	DocumentTypeDamageReport      DocumentType = "damage_report"
	DocumentTypeInvoice           DocumentType = "invoice"
	DocumentTypePaymentReceipt    DocumentType = "payment_receipt"
	DocumentTypeOther             DocumentType = "other"
)

func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeRentalAgreement, DocumentTypeOperatingManual, DocumentTypeInsuranceDocument,
		DocumentTypeDeliveryReceipt, DocumentTypeReturnReceipt, DocumentTypeDamageReport,
		DocumentTypeInvoice, DocumentTypePaymentReceipt, DocumentTypeOther:
		return true
	}
	return false
}

// Document is a file attached to a rental order. Documents are only ever
// added or administratively removed, never mutated.
type Document struct {
	ID                int64        `json:"id"`
	RentalID          int64        `json:"rental_id"`
	Type              DocumentType `json:"document_type"`
	Title             string       `json:"title"`
	VisibleToCustomer bool         `json:"visible_to_customer"`
	ContentType       string       `json:"content_type,omitempty"`
	StorageKey        string       `json:"-"`
	UploadedOn        time.Time    `json:"uploaded_on"`
}
