package quotations

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/catalog/products"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/numbering"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/shared"
)

// NumberSequence is the quotation counter. The 9000 start keeps freshly
// minted numbers clear of the manually issued legacy block.
var NumberSequence = numbering.Sequence{
	Key:      "quotationNumber",
	Template: "QTN/{FY}/{SEQ4}",
	Start:    9000,
}

var auditedFields = []string{"customer_name", "customer_gstin", "default_gst_percent", "status", "subtotal", "tax_total", "grand_total", "notes"}

// ProductLookup resolves catalog items for HSN/GST backfill.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (*products.Product, error)
}

type Service struct {
	repo      Repository
	productz  ProductLookup
	allocator *numbering.Allocator
	recorder  *audit.Recorder
}

func NewService(repo Repository, productz ProductLookup, allocator *numbering.Allocator, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, productz: productz, allocator: allocator, recorder: recorder}
}

func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Quotation, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *Service) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	return s.repo.List(ctx, req)
}

// Create mints the quotation number, applies the margin to every line once,
// and persists header plus lines in one transaction. A crash after minting
// leaves a gap in the sequence, never a duplicate.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest, actor audit.Actor) (*Quotation, error) {
	now := time.Now()
	number, _, err := s.allocator.Mint(ctx, NumberSequence, now)
	if err != nil {
		return nil, fmt.Errorf("mint quotation number: %w", err)
	}

	lines, amounts, err := s.buildLines(ctx, req.Lines, req.MarginPercent, req.DefaultGSTPercent)
	if err != nil {
		return nil, err
	}
	subtotal, taxTotal, grandTotal := shared.Totals(amounts)

	quotation := Quotation{
		Number:            number,
		OpportunityCode:   req.OpportunityCode,
		CustomerName:      req.CustomerName,
		CustomerAddress:   req.CustomerAddress,
		CustomerGSTIN:     req.CustomerGSTIN,
		MarginPercent:     req.MarginPercent,
		DefaultGSTPercent: req.DefaultGSTPercent,
		Status:            QuotationStatusDraft,
		Subtotal:          subtotal,
		TaxTotal:          taxTotal,
		GrandTotal:        grandTotal,
		Notes:             req.Notes,
		CreatedBy:         actor.Name,
	}

	var quotationID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, quotation)
		if err != nil {
			return fmt.Errorf("create quotation: %w", err)
		}
		quotationID = id
		for _, line := range lines {
			line.QuotationID = quotationID
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert quotation line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Get(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	s.recorder.Created(ctx, "quotation", strconv.FormatInt(quotationID, 10), Snapshot(created), actor)
	return created, nil
}

// Update replaces header fields and, when lines are supplied, recomputes
// every line through the same pricing path used at creation. The minted
// number is immutable.
func (s *Service) Update(ctx context.Context, id int64, req UpdateQuotationRequest, actor audit.Actor) (*Quotation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
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
	if req.DefaultGSTPercent != nil {
		updates["default_gst_percent"] = *req.DefaultGSTPercent
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	var linesToInsert []QuotationLine
	if req.Lines != nil && len(*req.Lines) > 0 {
		defaultGST := existing.DefaultGSTPercent
		if req.DefaultGSTPercent != nil {
			defaultGST = req.DefaultGSTPercent
		}
		lines, amounts, err := s.buildLines(ctx, *req.Lines, existing.MarginPercent, defaultGST)
		if err != nil {
			return nil, err
		}
		linesToInsert = lines
		subtotal, taxTotal, grandTotal := shared.Totals(amounts)
		updates["subtotal"] = subtotal
		updates["tax_total"] = taxTotal
		updates["grand_total"] = grandTotal
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				return err
			}
		}
		if linesToInsert != nil {
			if err := repo.DeleteLines(ctx, id); err != nil {
				return err
			}
			for _, line := range linesToInsert {
				line.QuotationID = id
				if _, err := repo.InsertLine(ctx, line); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := audit.Diff(Snapshot(existing), Snapshot(updated), auditedFields)
	s.recorder.Updated(ctx, "quotation", strconv.FormatInt(id, 10), changes, actor)
	return updated, nil
}

// buildLines resolves catalog defaults and prices each line with the margin
// applied exactly once.
func (s *Service) buildLines(ctx context.Context, reqs []CreateQuotationLineReq, marginPercent float64, defaultGST *float64) ([]QuotationLine, []shared.Amounts, error) {
	lines := make([]QuotationLine, 0, len(reqs))
	amounts := make([]shared.Amounts, 0, len(reqs))

	for i, lr := range reqs {
		hsn := lr.HSNCode
		gst := lr.GSTPercent
		if lr.ProductID != nil && (hsn == "" || gst == nil) {
			p, err := s.productz.Get(ctx, *lr.ProductID)
			if err == nil {
				if hsn == "" {
					hsn = p.HSNCode
				}
				if gst == nil {
					gst = p.GSTPercent
				}
			}
		}

		a := shared.ComputeLine(shared.LineInput{
			Quantity:   lr.Quantity,
			UnitRate:   lr.UnitRate,
			GSTPercent: gst,
		}, shared.LineOptions{
			ApplyMargin:       true,
			MarginPercent:     marginPercent,
			DefaultGSTPercent: defaultGST,
		})

		order := lr.LineOrder
		if order == 0 {
			order = i + 1
		}
		lines = append(lines, QuotationLine{
			ProductID:     lr.ProductID,
			Description:   lr.Description,
			HSNCode:       hsn,
			Quantity:      lr.Quantity,
			UnitRate:      lr.UnitRate,
			EffectiveRate: a.EffectiveRate,
			GSTPercent:    gst,
			BaseAmount:    a.BaseAmount,
			TaxAmount:     a.TaxAmount,
			TotalAmount:   a.TotalAmount,
			LineOrder:     order,
		})
		amounts = append(amounts, a)
	}
	return lines, amounts, nil
}

// Snapshot projects the audited quotation fields for diffing.
func Snapshot(q *Quotation) map[string]any {
	if q == nil {
		return nil
	}
	snap := map[string]any{
		"customer_name": q.CustomerName,
		"status":        string(q.Status),
		"subtotal":      q.Subtotal,
		"tax_total":     q.TaxTotal,
		"grand_total":   q.GrandTotal,
	}
	if q.CustomerGSTIN != nil {
		snap["customer_gstin"] = *q.CustomerGSTIN
	}
	if q.DefaultGSTPercent != nil {
		snap["default_gst_percent"] = *q.DefaultGSTPercent
	}
	if q.Notes != nil {
		snap["notes"] = *q.Notes
	}
	return snap
}
