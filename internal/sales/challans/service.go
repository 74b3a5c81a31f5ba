package challans

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/numbering"
)

// NumberSequence is the delivery challan counter. The 5000 start keeps new
// numbers above the manually issued challan books.
var NumberSequence = numbering.Sequence{
	Key:      "dcNumber",
	Template: "DC/{FY}/{SEQ4}",
	Start:    5000,
}

var auditedFields = []string{"customer_address", "status", "notes"}

type Service struct {
	repo      Repository
	allocator *numbering.Allocator
	recorder  *audit.Recorder
}

func NewService(repo Repository, allocator *numbering.Allocator, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, allocator: allocator, recorder: recorder}
}

func (s *Service) Get(ctx context.Context, id int64) (*DeliveryChallan, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*DeliveryChallan, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *Service) List(ctx context.Context, req ListChallansRequest) ([]DeliveryChallan, int, error) {
	return s.repo.List(ctx, req)
}

// Persist mints the challan number and writes header plus lines in one
// transaction. Challans are only created through derivation, never directly.
func (s *Service) Persist(ctx context.Context, dc DeliveryChallan, lines []ChallanLine, actor audit.Actor) (*DeliveryChallan, error) {
	number, _, err := s.allocator.Mint(ctx, NumberSequence, time.Now())
	if err != nil {
		return nil, fmt.Errorf("mint challan number: %w", err)
	}
	dc.Number = number
	if dc.Status == "" {
		dc.Status = ChallanStatusPrepared
	}

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		createdID, err := repo.Create(ctx, dc)
		if err != nil {
			return fmt.Errorf("create challan: %w", err)
		}
		id = createdID
		for _, line := range lines {
			line.ChallanID = createdID
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert challan line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Created(ctx, "delivery_challan", strconv.FormatInt(id, 10), Snapshot(created), actor)
	return created, nil
}

// Update changes dispatch status and delivery details; the goods listing is
// frozen at derivation.
func (s *Service) Update(ctx context.Context, id int64, req UpdateChallanRequest, actor audit.Actor) (*DeliveryChallan, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get challan: %w", err)
	}

	updates := make(map[string]interface{})
	if req.CustomerAddress != nil {
		updates["customer_address"] = *req.CustomerAddress
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update challan: %w", err)
		}
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := audit.Diff(Snapshot(existing), Snapshot(updated), auditedFields)
	s.recorder.Updated(ctx, "delivery_challan", strconv.FormatInt(id, 10), changes, actor)
	return updated, nil
}

// Snapshot projects the audited challan fields for diffing.
func Snapshot(dc *DeliveryChallan) map[string]any {
	if dc == nil {
		return nil
	}
	snap := map[string]any{
		"customer_name": dc.CustomerName,
		"status":        string(dc.Status),
		"source_number": dc.SourceNumber,
		"grand_total":   dc.GrandTotal,
	}
	if dc.CustomerAddress != nil {
		snap["customer_address"] = *dc.CustomerAddress
	}
	if dc.Notes != nil {
		snap["notes"] = *dc.Notes
	}
	return snap
}
