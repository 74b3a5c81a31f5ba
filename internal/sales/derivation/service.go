package derivation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/catalog/products"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/crm/opportunities"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/challans"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/invoices"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/quotations"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/shared"
)

// QuotationStore is the slice of the quotation repository derivation needs.
type QuotationStore interface {
	Get(ctx context.Context, id int64) (*quotations.Quotation, error)
	SetInvoiceRef(ctx context.Context, id, invoiceID int64, invoiceNumber string) error
	SetChallanRef(ctx context.Context, id, challanID int64, challanNumber string) error
}

// InvoiceStore persists derived invoices and back-links them to challans.
type InvoiceStore interface {
	Get(ctx context.Context, id int64) (*invoices.Invoice, error)
	Persist(ctx context.Context, inv invoices.Invoice, lines []invoices.InvoiceLine) (*invoices.Invoice, error)
	SetChallanRef(ctx context.Context, id, challanID int64, challanNumber string) error
}

// ChallanStore persists derived delivery challans.
type ChallanStore interface {
	Persist(ctx context.Context, dc challans.DeliveryChallan, lines []challans.ChallanLine, actor audit.Actor) (*challans.DeliveryChallan, error)
}

// OpportunityLookup resolves opportunity owners for challan enrichment.
type OpportunityLookup interface {
	GetByCode(ctx context.Context, code string) (*opportunities.Opportunity, error)
}

// ProductLookup backfills HSN codes from the catalog.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (*products.Product, error)
}

// KeyStore guards against replayed derivation requests.
type KeyStore interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	logger   *slog.Logger
	quotes   QuotationStore
	invoices InvoiceStore
	challans ChallanStore
	opps     OpportunityLookup
	products ProductLookup
	keys     KeyStore
	recorder *audit.Recorder
}

func NewService(
	logger *slog.Logger,
	quotes QuotationStore,
	invs InvoiceStore,
	chals ChallanStore,
	opps OpportunityLookup,
	productz ProductLookup,
	keys KeyStore,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		logger:   logger,
		quotes:   quotes,
		invoices: invs,
		challans: chals,
		opps:     opps,
		products: productz,
		keys:     keys,
		recorder: recorder,
	}
}

// Derive builds a new document from an existing one. Lines are recomputed
// under the target document's conventions; the source's effective rates are
// carried over as-is, so a margin applied at quotation time is never applied
// again. An unresolvable HSN on any line aborts before anything is written.
func (s *Service) Derive(ctx context.Context, req DeriveRequest, actor audit.Actor) (*Result, error) {
	if !EdgeAllowed(req.SourceKind, req.TargetKind) {
		return nil, fmt.Errorf("%s to %s: %w", req.SourceKind, req.TargetKind, ErrInvalidEdge)
	}

	switch req.SourceKind {
	case KindQuotation:
		q, err := s.quotes.Get(ctx, req.SourceID)
		if err != nil {
			return nil, fmt.Errorf("load quotation %d: %w", req.SourceID, err)
		}
		if req.TargetKind == KindInvoice {
			return s.invoiceFromQuotation(ctx, req, q, actor)
		}
		return s.challanFromQuotation(ctx, req, q, actor)
	case KindInvoice:
		inv, err := s.invoices.Get(ctx, req.SourceID)
		if err != nil {
			return nil, fmt.Errorf("load invoice %d: %w", req.SourceID, err)
		}
		return s.challanFromInvoice(ctx, req, inv, actor)
	}
	return nil, ErrInvalidEdge
}

func (s *Service) invoiceFromQuotation(ctx context.Context, req DeriveRequest, q *quotations.Quotation, actor audit.Actor) (*Result, error) {
	lines := make([]invoices.InvoiceLine, 0, len(q.Lines))
	amounts := make([]shared.Amounts, 0, len(q.Lines))
	for i, ql := range q.Lines {
		hsn, err := s.resolveHSN(ctx, ql.HSNCode, ql.ProductID, i+1)
		if err != nil {
			return nil, err
		}
		a := shared.ComputeLine(shared.LineInput{
			Quantity:   ql.Quantity,
			UnitRate:   ql.EffectiveRate,
			GSTPercent: ql.GSTPercent,
		}, shared.LineOptions{
			DefaultGSTPercent: q.DefaultGSTPercent,
			SplitGST:          true,
		})
		lines = append(lines, invoices.InvoiceLine{
			ProductID:   ql.ProductID,
			Description: ql.Description,
			HSNCode:     hsn,
			Quantity:    ql.Quantity,
			UnitRate:    ql.EffectiveRate,
			GSTPercent:  ql.GSTPercent,
			BaseAmount:  a.BaseAmount,
			CGSTAmount:  a.CGSTAmount,
			SGSTAmount:  a.SGSTAmount,
			TaxAmount:   a.TaxAmount,
			TotalAmount: a.TotalAmount,
			LineOrder:   ql.LineOrder,
		})
		amounts = append(amounts, a)
	}

	key, err := s.claimKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	inv := invoices.Invoice{
		SourceQuotationID:     &q.ID,
		SourceQuotationNumber: &q.Number,
		CustomerName:          q.CustomerName,
		CustomerAddress:       q.CustomerAddress,
		CustomerGSTIN:         q.CustomerGSTIN,
		DefaultGSTPercent:     q.DefaultGSTPercent,
		Status:                invoices.InvoiceStatusIssued,
		Notes:                 req.Notes,
		CreatedBy:             actor.Name,
	}
	inv.Subtotal, inv.TaxTotal, inv.GrandTotal = shared.Totals(amounts)
	for _, a := range amounts {
		inv.CGSTTotal += a.CGSTAmount
		inv.SGSTTotal += a.SGSTAmount
	}
	inv.CGSTTotal = shared.Round2(inv.CGSTTotal)
	inv.SGSTTotal = shared.Round2(inv.SGSTTotal)

	created, err := s.invoices.Persist(ctx, inv, lines)
	if err != nil {
		s.releaseKey(ctx, key)
		return nil, err
	}

	if err := s.quotes.SetInvoiceRef(ctx, q.ID, created.ID, created.Number); err != nil {
		return nil, fmt.Errorf("link invoice to quotation: %w", err)
	}
	s.recorder.Created(ctx, "invoice", strconv.FormatInt(created.ID, 10), invoices.Snapshot(created), actor)
	return &Result{TargetKind: KindInvoice, Invoice: created}, nil
}

func (s *Service) challanFromQuotation(ctx context.Context, req DeriveRequest, q *quotations.Quotation, actor audit.Actor) (*Result, error) {
	lines := make([]challans.ChallanLine, 0, len(q.Lines))
	amounts := make([]shared.Amounts, 0, len(q.Lines))
	for i, ql := range q.Lines {
		hsn, err := s.resolveHSN(ctx, ql.HSNCode, ql.ProductID, i+1)
		if err != nil {
			return nil, err
		}
		a := shared.ComputeLine(shared.LineInput{
			Quantity:   ql.Quantity,
			UnitRate:   ql.EffectiveRate,
			GSTPercent: ql.GSTPercent,
		}, shared.LineOptions{
			DefaultGSTPercent: q.DefaultGSTPercent,
		})
		lines = append(lines, challans.ChallanLine{
			ProductID:   ql.ProductID,
			Description: ql.Description,
			HSNCode:     hsn,
			Quantity:    ql.Quantity,
			UnitRate:    ql.EffectiveRate,
			GSTPercent:  ql.GSTPercent,
			BaseAmount:  a.BaseAmount,
			TaxAmount:   a.TaxAmount,
			TotalAmount: a.TotalAmount,
			LineOrder:   ql.LineOrder,
		})
		amounts = append(amounts, a)
	}

	key, err := s.claimKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	dc := challans.DeliveryChallan{
		SourceKind:       challans.SourceQuotation,
		SourceID:         q.ID,
		SourceNumber:     q.Number,
		OpportunityOwner: s.ownerForCode(ctx, q.OpportunityCode),
		CustomerName:     q.CustomerName,
		CustomerAddress:  q.CustomerAddress,
		Notes:            req.Notes,
		CreatedBy:        actor.Name,
	}
	dc.Subtotal, dc.TaxTotal, dc.GrandTotal = shared.Totals(amounts)

	created, err := s.challans.Persist(ctx, dc, lines, actor)
	if err != nil {
		s.releaseKey(ctx, key)
		return nil, err
	}

	if err := s.quotes.SetChallanRef(ctx, q.ID, created.ID, created.Number); err != nil {
		return nil, fmt.Errorf("link challan to quotation: %w", err)
	}
	return &Result{TargetKind: KindChallan, Challan: created}, nil
}

func (s *Service) challanFromInvoice(ctx context.Context, req DeriveRequest, inv *invoices.Invoice, actor audit.Actor) (*Result, error) {
	lines := make([]challans.ChallanLine, 0, len(inv.Lines))
	amounts := make([]shared.Amounts, 0, len(inv.Lines))
	for i, il := range inv.Lines {
		hsn, err := s.resolveHSN(ctx, il.HSNCode, il.ProductID, i+1)
		if err != nil {
			return nil, err
		}
		a := shared.ComputeLine(shared.LineInput{
			Quantity:   il.Quantity,
			UnitRate:   il.UnitRate,
			GSTPercent: il.GSTPercent,
		}, shared.LineOptions{
			DefaultGSTPercent: inv.DefaultGSTPercent,
		})
		lines = append(lines, challans.ChallanLine{
			ProductID:   il.ProductID,
			Description: il.Description,
			HSNCode:     hsn,
			Quantity:    il.Quantity,
			UnitRate:    il.UnitRate,
			GSTPercent:  il.GSTPercent,
			BaseAmount:  a.BaseAmount,
			TaxAmount:   a.TaxAmount,
			TotalAmount: a.TotalAmount,
			LineOrder:   il.LineOrder,
		})
		amounts = append(amounts, a)
	}

	key, err := s.claimKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	dc := challans.DeliveryChallan{
		SourceKind:       challans.SourceInvoice,
		SourceID:         inv.ID,
		SourceNumber:     inv.Number,
		OpportunityOwner: s.ownerForInvoice(ctx, inv),
		CustomerName:     inv.CustomerName,
		CustomerAddress:  inv.CustomerAddress,
		Notes:            req.Notes,
		CreatedBy:        actor.Name,
	}
	dc.Subtotal, dc.TaxTotal, dc.GrandTotal = shared.Totals(amounts)

	created, err := s.challans.Persist(ctx, dc, lines, actor)
	if err != nil {
		s.releaseKey(ctx, key)
		return nil, err
	}

	if err := s.invoices.SetChallanRef(ctx, inv.ID, created.ID, created.Number); err != nil {
		return nil, fmt.Errorf("link challan to invoice: %w", err)
	}
	return &Result{TargetKind: KindChallan, Challan: created}, nil
}

// resolveHSN takes the line's own code, falls back to the catalog, and fails
// the whole derivation when neither yields one.
func (s *Service) resolveHSN(ctx context.Context, hsn string, productID *int64, lineNo int) (string, error) {
	if hsn != "" {
		return hsn, nil
	}
	if productID != nil {
		if p, err := s.products.Get(ctx, *productID); err == nil && p.HSNCode != "" {
			return p.HSNCode, nil
		}
	}
	return "", &ValidationError{Line: lineNo, Field: "hsn_code", Reason: "could not be resolved"}
}

// ownerForCode is best-effort enrichment: a missing opportunity leaves the
// owner blank and never fails the derivation.
func (s *Service) ownerForCode(ctx context.Context, code *string) *string {
	if code == nil || *code == "" {
		return nil
	}
	opp, err := s.opps.GetByCode(ctx, *code)
	if err != nil {
		s.logger.Warn("opportunity owner not resolved", slog.String("code", *code), slog.Any("error", err))
		return nil
	}
	return &opp.Owner
}

// ownerForInvoice walks invoice -> source quotation -> opportunity.
func (s *Service) ownerForInvoice(ctx context.Context, inv *invoices.Invoice) *string {
	if inv.SourceQuotationID == nil {
		return nil
	}
	q, err := s.quotes.Get(ctx, *inv.SourceQuotationID)
	if err != nil {
		s.logger.Warn("source quotation not resolved", slog.Int64("quotation_id", *inv.SourceQuotationID), slog.Any("error", err))
		return nil
	}
	return s.ownerForCode(ctx, q.OpportunityCode)
}

// claimKey records the idempotency key, minting one when the client did not
// supply it. A replayed key surfaces as a conflict.
func (s *Service) claimKey(ctx context.Context, key string) (string, error) {
	if key == "" {
		key = uuid.NewString()
	}
	if err := s.keys.CheckAndInsert(ctx, key, "derivation"); err != nil {
		return "", fmt.Errorf("derivation key %s: %w", key, err)
	}
	return key, nil
}

func (s *Service) releaseKey(ctx context.Context, key string) {
	if err := s.keys.Delete(ctx, key); err != nil {
		s.logger.Warn("idempotency key not released", slog.String("key", key), slog.Any("error", err))
	}
}
