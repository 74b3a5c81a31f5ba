package quotations

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/catalog/products"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/numbering"
)

type memCounterStore struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func (m *memCounterStore) NextValue(_ context.Context, key string, start int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	cur, ok := m.seqs[key]
	if !ok {
		cur = start
	}
	cur++
	m.seqs[key] = cur
	return cur, nil
}

func (m *memCounterStore) EnsureFloor(_ context.Context, key string, minimum int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	if m.seqs[key] < minimum {
		m.seqs[key] = minimum
	}
	return nil
}

type mockRepository struct {
	quotations map[int64]*Quotation
	nextID     int64
	nextLineID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{quotations: make(map[int64]*Quotation), nextID: 1, nextLineID: 1}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Quotation, error) {
	q, ok := m.quotations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	cp.Lines = append([]QuotationLine(nil), q.Lines...)
	return &cp, nil
}

func (m *mockRepository) GetByNumber(ctx context.Context, number string) (*Quotation, error) {
	for id, q := range m.quotations {
		if q.Number == number {
			return m.Get(ctx, id)
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepository) List(_ context.Context, _ ListQuotationsRequest) ([]Quotation, int, error) {
	var out []Quotation
	for _, q := range m.quotations {
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, q Quotation) (int64, error) {
	id := m.nextID
	m.nextID++
	q.ID = id
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	m.quotations[id] = &q
	return id, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		switch col {
		case "customer_name":
			q.CustomerName = val.(string)
		case "customer_address":
			s := val.(string)
			q.CustomerAddress = &s
		case "customer_gstin":
			s := val.(string)
			q.CustomerGSTIN = &s
		case "default_gst_percent":
			f := val.(float64)
			q.DefaultGSTPercent = &f
		case "notes":
			s := val.(string)
			q.Notes = &s
		case "subtotal":
			q.Subtotal = val.(float64)
		case "tax_total":
			q.TaxTotal = val.(float64)
		case "grand_total":
			q.GrandTotal = val.(float64)
		}
	}
	return nil
}

func (m *mockRepository) InsertLine(_ context.Context, line QuotationLine) (int64, error) {
	q, ok := m.quotations[line.QuotationID]
	if !ok {
		return 0, ErrNotFound
	}
	line.ID = m.nextLineID
	m.nextLineID++
	q.Lines = append(q.Lines, line)
	return line.ID, nil
}

func (m *mockRepository) DeleteLines(_ context.Context, quotationID int64) error {
	q, ok := m.quotations[quotationID]
	if !ok {
		return ErrNotFound
	}
	q.Lines = nil
	return nil
}

func (m *mockRepository) SetInvoiceRef(_ context.Context, id, invoiceID int64, invoiceNumber string) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.InvoiceID = &invoiceID
	q.InvoiceNumber = &invoiceNumber
	q.Status = QuotationStatusConverted
	return nil
}

func (m *mockRepository) SetChallanRef(_ context.Context, id, challanID int64, challanNumber string) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.ChallanID = &challanID
	q.ChallanNumber = &challanNumber
	return nil
}

type mockProducts struct {
	byID map[int64]*products.Product
}

func (m *mockProducts) Get(_ context.Context, id int64) (*products.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	return p, nil
}

type capturingAuditRepo struct {
	entries []audit.Entry
}

func (c *capturingAuditRepo) Insert(_ context.Context, e audit.Entry) error {
	c.entries = append(c.entries, e)
	return nil
}

func (c *capturingAuditRepo) Timeline(_ context.Context, _, _ string, _ int) ([]audit.Entry, error) {
	return c.entries, nil
}

func newTestService() (*Service, *mockRepository, *mockProducts, *capturingAuditRepo) {
	repo := newMockRepository()
	productz := &mockProducts{byID: make(map[int64]*products.Product)}
	auditRepo := &capturingAuditRepo{}
	svc := NewService(repo, productz, numbering.NewAllocator(&memCounterStore{}), audit.NewRecorder(auditRepo, slog.Default()))
	return svc, repo, productz, auditRepo
}

var testActor = audit.Actor{Name: "tester", SourceAddr: "127.0.0.1"}

func f64(v float64) *float64 { return &v }

func TestCreateMintsNumberAboveLegacyBlock(t *testing.T) {
	svc, _, _, _ := newTestService()

	created, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerName: "Acme Traders",
		Lines: []CreateQuotationLineReq{
			{Description: "Widget", Quantity: 1, UnitRate: 50},
		},
	}, testActor)
	require.NoError(t, err)

	fy := numbering.FiscalYearKey(time.Now())
	assert.Equal(t, "QTN/"+fy+"/9001", created.Number)
	assert.Equal(t, QuotationStatusDraft, created.Status)
}

func TestCreateAppliesMarginOncePerLine(t *testing.T) {
	svc, _, _, auditRepo := newTestService()

	created, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerName:  "Acme Traders",
		MarginPercent: 10,
		Lines: []CreateQuotationLineReq{
			{Description: "Widget", Quantity: 2, UnitRate: 100, GSTPercent: f64(18)},
		},
	}, testActor)
	require.NoError(t, err)

	require.Len(t, created.Lines, 1)
	line := created.Lines[0]
	assert.Equal(t, 100.0, line.UnitRate)
	assert.InDelta(t, 110.0, line.EffectiveRate, 1e-9)
	assert.Equal(t, 220.00, line.BaseAmount)
	assert.Equal(t, 39.60, line.TaxAmount)
	assert.Equal(t, 259.60, line.TotalAmount)

	assert.Equal(t, 220.00, created.Subtotal)
	assert.Equal(t, 39.60, created.TaxTotal)
	assert.Equal(t, 259.60, created.GrandTotal)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionCreate, auditRepo.entries[0].Action)
	assert.Equal(t, "quotation", auditRepo.entries[0].Entity)
}

func TestCreateBackfillsHSNAndGSTFromCatalog(t *testing.T) {
	svc, _, productz, _ := newTestService()
	pid := int64(7)
	productz.byID[pid] = &products.Product{ID: pid, Name: "Gear", HSNCode: "8483", GSTPercent: f64(12)}

	created, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerName: "Acme Traders",
		Lines: []CreateQuotationLineReq{
			{ProductID: &pid, Description: "Gear", Quantity: 1, UnitRate: 100},
		},
	}, testActor)
	require.NoError(t, err)

	require.Len(t, created.Lines, 1)
	assert.Equal(t, "8483", created.Lines[0].HSNCode)
	require.NotNil(t, created.Lines[0].GSTPercent)
	assert.Equal(t, 12.0, *created.Lines[0].GSTPercent)
	assert.Equal(t, 12.00, created.Lines[0].TaxAmount)
}

func TestCreateExplicitLineValuesWinOverCatalog(t *testing.T) {
	svc, _, productz, _ := newTestService()
	pid := int64(7)
	productz.byID[pid] = &products.Product{ID: pid, Name: "Gear", HSNCode: "8483", GSTPercent: f64(12)}

	created, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerName: "Acme Traders",
		Lines: []CreateQuotationLineReq{
			{ProductID: &pid, Description: "Gear", HSNCode: "9999", Quantity: 1, UnitRate: 100, GSTPercent: f64(5)},
		},
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, "9999", created.Lines[0].HSNCode)
	assert.Equal(t, 5.0, *created.Lines[0].GSTPercent)
}

func TestUpdateReplacingLinesRecomputesTotals(t *testing.T) {
	svc, _, _, auditRepo := newTestService()

	created, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerName:  "Acme Traders",
		MarginPercent: 10,
		Lines: []CreateQuotationLineReq{
			{Description: "Widget", Quantity: 2, UnitRate: 100, GSTPercent: f64(18)},
		},
	}, testActor)
	require.NoError(t, err)

	newLines := []CreateQuotationLineReq{
		{Description: "Widget", Quantity: 4, UnitRate: 100, GSTPercent: f64(18)},
	}
	updated, err := svc.Update(context.Background(), created.ID, UpdateQuotationRequest{Lines: &newLines}, testActor)
	require.NoError(t, err)

	require.Len(t, updated.Lines, 1)
	assert.Equal(t, 440.00, updated.Subtotal)
	assert.Equal(t, 79.20, updated.TaxTotal)
	assert.Equal(t, 519.20, updated.GrandTotal)
	assert.Equal(t, created.Number, updated.Number)

	var fields []string
	for _, e := range auditRepo.entries {
		if e.Action == audit.ActionUpdate {
			fields = append(fields, e.Field)
		}
	}
	assert.ElementsMatch(t, []string{"subtotal", "tax_total", "grand_total"}, fields)
}

func TestUpdateNoopWritesNoAudit(t *testing.T) {
	svc, _, _, auditRepo := newTestService()

	created, err := svc.Create(context.Background(), CreateQuotationRequest{
		CustomerName: "Acme Traders",
		Lines: []CreateQuotationLineReq{
			{Description: "Widget", Quantity: 1, UnitRate: 50},
		},
	}, testActor)
	require.NoError(t, err)

	before := len(auditRepo.entries)
	_, err = svc.Update(context.Background(), created.ID, UpdateQuotationRequest{}, testActor)
	require.NoError(t, err)
	assert.Equal(t, before, len(auditRepo.entries))
}
