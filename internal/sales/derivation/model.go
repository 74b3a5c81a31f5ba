package derivation

import (
	"errors"
	"fmt"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/platform/httpx"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/challans"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/invoices"
)

// Kind names a document type in the derivation graph.
type Kind string

const (
	KindQuotation Kind = "QUOTATION"
	KindInvoice   Kind = "INVOICE"
	KindChallan   Kind = "CHALLAN"
)

// ErrInvalidEdge rejects a source/target pair outside the permitted graph.
var ErrInvalidEdge = errors.New("derivation not permitted between these document types")

// permittedEdges is the full derivation graph: quotation to invoice,
// quotation to challan, invoice to challan. Nothing derives the other way.
var permittedEdges = map[Kind]map[Kind]bool{
	KindQuotation: {KindInvoice: true, KindChallan: true},
	KindInvoice:   {KindChallan: true},
}

// EdgeAllowed reports whether target can be derived from source.
func EdgeAllowed(source, target Kind) bool {
	return permittedEdges[source][target]
}

// DeriveRequest asks for a new document derived from an existing one.
// IdempotencyKey is optional; retried requests carrying the same key get a
// conflict instead of a second document.
type DeriveRequest struct {
	SourceKind     Kind    `json:"source_kind" validate:"required,oneof=QUOTATION INVOICE"`
	SourceID       int64   `json:"source_id" validate:"required,gt=0"`
	TargetKind     Kind    `json:"target_kind" validate:"required,oneof=INVOICE CHALLAN"`
	IdempotencyKey string  `json:"idempotency_key" validate:"omitempty,max=64"`
	Notes          *string `json:"notes,omitempty"`
}

// Result holds the freshly minted document; exactly one of Invoice and
// Challan is set, matching TargetKind.
type Result struct {
	TargetKind Kind                      `json:"target_kind"`
	Invoice    *invoices.Invoice         `json:"invoice,omitempty"`
	Challan    *challans.DeliveryChallan `json:"challan,omitempty"`
}

// ValidationError pinpoints the source line that blocked derivation.
type ValidationError struct {
	Line   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s %s", e.Line, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return httpx.ErrValidation
}
