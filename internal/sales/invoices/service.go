package invoices

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/numbering"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/shared"
)

// NumberSequence is the invoice counter. Unlike quotations it restarts every
// fiscal year, so INV/24-25/0001 and INV/25-26/0001 coexist.
var NumberSequence = numbering.Sequence{
	Key:           "invoice",
	PerFiscalYear: true,
	Template:      "INV/{FY}/{SEQ4}",
}

var auditedFields = []string{"customer_name", "customer_gstin", "status", "notes"}

type Service struct {
	repo      Repository
	allocator *numbering.Allocator
	recorder  *audit.Recorder
}

func NewService(repo Repository, allocator *numbering.Allocator, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, allocator: allocator, recorder: recorder}
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	return s.repo.List(ctx, req)
}

// Create issues an invoice directly, without a source quotation. Rates are
// taken as given; no margin is applied on this path.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest, actor audit.Actor) (*Invoice, error) {
	lines, amounts := buildLines(req.Lines, req.DefaultGSTPercent)
	inv := Invoice{
		CustomerName:      req.CustomerName,
		CustomerAddress:   req.CustomerAddress,
		CustomerGSTIN:     req.CustomerGSTIN,
		DefaultGSTPercent: req.DefaultGSTPercent,
		Status:            InvoiceStatusIssued,
		Notes:             req.Notes,
		CreatedBy:         actor.Name,
	}
	inv.Subtotal, inv.TaxTotal, inv.GrandTotal = shared.Totals(amounts)
	inv.CGSTTotal, inv.SGSTTotal = legTotals(amounts)

	created, err := s.Persist(ctx, inv, lines)
	if err != nil {
		return nil, err
	}
	s.recorder.Created(ctx, "invoice", strconv.FormatInt(created.ID, 10), Snapshot(created), actor)
	return created, nil
}

// Persist mints the invoice number and writes header plus lines in one
// transaction. When the insert collides with a concurrently issued number it
// allocates a fresh one and retries exactly once.
func (s *Service) Persist(ctx context.Context, inv Invoice, lines []InvoiceLine) (*Invoice, error) {
	var id int64
	for attempt := 0; ; attempt++ {
		number, _, err := s.allocator.Mint(ctx, NumberSequence, time.Now())
		if err != nil {
			return nil, fmt.Errorf("mint invoice number: %w", err)
		}
		inv.Number = number

		err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
			createdID, err := repo.Create(ctx, inv)
			if err != nil {
				return err
			}
			id = createdID
			for _, line := range lines {
				line.InvoiceID = createdID
				if _, err := repo.InsertLine(ctx, line); err != nil {
					return fmt.Errorf("insert invoice line: %w", err)
				}
			}
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, ErrDuplicateNumber) && attempt == 0 {
			continue
		}
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// SetChallanRef back-links a derived delivery challan onto the invoice.
func (s *Service) SetChallanRef(ctx context.Context, id, challanID int64, challanNumber string) error {
	return s.repo.SetChallanRef(ctx, id, challanID, challanNumber)
}

// Update changes header fields only; issued amounts stay as minted.
func (s *Service) Update(ctx context.Context, id int64, req UpdateInvoiceRequest, actor audit.Actor) (*Invoice, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	updates := make(map[string]interface{})
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
	}
	if req.CustomerAddress != nil {
		updates["customer_address"] = *req.CustomerAddress
	}
	if req.CustomerGSTIN != nil {
		updates["customer_gstin"] = *req.CustomerGSTIN
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update invoice: %w", err)
		}
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := audit.Diff(Snapshot(existing), Snapshot(updated), auditedFields)
	s.recorder.Updated(ctx, "invoice", strconv.FormatInt(id, 10), changes, actor)
	return updated, nil
}

func buildLines(reqs []CreateInvoiceLineReq, defaultGST *float64) ([]InvoiceLine, []shared.Amounts) {
	lines := make([]InvoiceLine, 0, len(reqs))
	amounts := make([]shared.Amounts, 0, len(reqs))
	for i, lr := range reqs {
		a := shared.ComputeLine(shared.LineInput{
			Quantity:   lr.Quantity,
			UnitRate:   lr.UnitRate,
			GSTPercent: lr.GSTPercent,
		}, shared.LineOptions{
			DefaultGSTPercent: defaultGST,
			SplitGST:          true,
		})
		order := lr.LineOrder
		if order == 0 {
			order = i + 1
		}
		lines = append(lines, InvoiceLine{
			ProductID:   lr.ProductID,
			Description: lr.Description,
			HSNCode:     lr.HSNCode,
			Quantity:    lr.Quantity,
			UnitRate:    lr.UnitRate,
			GSTPercent:  lr.GSTPercent,
			BaseAmount:  a.BaseAmount,
			CGSTAmount:  a.CGSTAmount,
			SGSTAmount:  a.SGSTAmount,
			TaxAmount:   a.TaxAmount,
			TotalAmount: a.TotalAmount,
			LineOrder:   order,
		})
		amounts = append(amounts, a)
	}
	return lines, amounts
}

func legTotals(amounts []shared.Amounts) (cgst, sgst float64) {
	for _, a := range amounts {
		cgst += a.CGSTAmount
		sgst += a.SGSTAmount
	}
	return shared.Round2(cgst), shared.Round2(sgst)
}

// Snapshot projects the audited invoice fields for diffing.
func Snapshot(inv *Invoice) map[string]any {
	if inv == nil {
		return nil
	}
	snap := map[string]any{
		"customer_name": inv.CustomerName,
		"status":        string(inv.Status),
		"subtotal":      inv.Subtotal,
		"tax_total":     inv.TaxTotal,
		"grand_total":   inv.GrandTotal,
	}
	if inv.CustomerGSTIN != nil {
		snap["customer_gstin"] = *inv.CustomerGSTIN
	}
	if inv.Notes != nil {
		snap["notes"] = *inv.Notes
	}
	return snap
}
