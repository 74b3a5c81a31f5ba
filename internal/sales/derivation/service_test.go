package derivation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/catalog/products"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/crm/opportunities"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/challans"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/invoices"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/quotations"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/shared"
)

type mockQuotes struct {
	byID map[int64]*quotations.Quotation
}

func (m *mockQuotes) Get(_ context.Context, id int64) (*quotations.Quotation, error) {
	q, ok := m.byID[id]
	if !ok {
		return nil, quotations.ErrNotFound
	}
	return q, nil
}

func (m *mockQuotes) SetInvoiceRef(_ context.Context, id, invoiceID int64, invoiceNumber string) error {
	q, ok := m.byID[id]
	if !ok {
		return quotations.ErrNotFound
	}
	q.InvoiceID = &invoiceID
	q.InvoiceNumber = &invoiceNumber
	q.Status = quotations.QuotationStatusConverted
	return nil
}

func (m *mockQuotes) SetChallanRef(_ context.Context, id, challanID int64, challanNumber string) error {
	q, ok := m.byID[id]
	if !ok {
		return quotations.ErrNotFound
	}
	q.ChallanID = &challanID
	q.ChallanNumber = &challanNumber
	return nil
}

type mockInvoices struct {
	byID   map[int64]*invoices.Invoice
	nextID int64
}

func (m *mockInvoices) Get(_ context.Context, id int64) (*invoices.Invoice, error) {
	inv, ok := m.byID[id]
	if !ok {
		return nil, invoices.ErrNotFound
	}
	return inv, nil
}

func (m *mockInvoices) Persist(_ context.Context, inv invoices.Invoice, lines []invoices.InvoiceLine) (*invoices.Invoice, error) {
	m.nextID++
	inv.ID = m.nextID
	inv.Number = fmt.Sprintf("INV/24-25/%04d", m.nextID)
	for i := range lines {
		lines[i].InvoiceID = inv.ID
	}
	inv.Lines = lines
	m.byID[inv.ID] = &inv
	return &inv, nil
}

func (m *mockInvoices) SetChallanRef(_ context.Context, id, challanID int64, challanNumber string) error {
	inv, ok := m.byID[id]
	if !ok {
		return invoices.ErrNotFound
	}
	inv.ChallanID = &challanID
	inv.ChallanNumber = &challanNumber
	return nil
}

type mockChallans struct {
	byID    map[int64]*challans.DeliveryChallan
	nextID  int64
	failure error
}

func (m *mockChallans) Persist(_ context.Context, dc challans.DeliveryChallan, lines []challans.ChallanLine, _ audit.Actor) (*challans.DeliveryChallan, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	m.nextID++
	dc.ID = m.nextID
	dc.Number = fmt.Sprintf("DC/24-25/%04d", 5000+m.nextID)
	dc.Status = challans.ChallanStatusPrepared
	for i := range lines {
		lines[i].ChallanID = dc.ID
	}
	dc.Lines = lines
	m.byID[dc.ID] = &dc
	return &dc, nil
}

type mockOpps struct {
	byCode map[string]*opportunities.Opportunity
}

func (m *mockOpps) GetByCode(_ context.Context, code string) (*opportunities.Opportunity, error) {
	opp, ok := m.byCode[code]
	if !ok {
		return nil, errors.New("opportunity not found")
	}
	return opp, nil
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

type mockKeys struct {
	used map[string]bool
}

func (m *mockKeys) CheckAndInsert(_ context.Context, key, _ string) error {
	if m.used[key] {
		return shared.ErrIdempotencyConflict
	}
	m.used[key] = true
	return nil
}

func (m *mockKeys) Delete(_ context.Context, key string) error {
	delete(m.used, key)
	return nil
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

type fixture struct {
	svc       *Service
	quotes    *mockQuotes
	invoices  *mockInvoices
	challans  *mockChallans
	opps      *mockOpps
	products  *mockProducts
	keys      *mockKeys
	auditRepo *capturingAuditRepo
}

func newFixture() *fixture {
	f := &fixture{
		quotes:    &mockQuotes{byID: make(map[int64]*quotations.Quotation)},
		invoices:  &mockInvoices{byID: make(map[int64]*invoices.Invoice)},
		challans:  &mockChallans{byID: make(map[int64]*challans.DeliveryChallan)},
		opps:      &mockOpps{byCode: make(map[string]*opportunities.Opportunity)},
		products:  &mockProducts{byID: make(map[int64]*products.Product)},
		keys:      &mockKeys{used: make(map[string]bool)},
		auditRepo: &capturingAuditRepo{},
	}
	f.svc = NewService(slog.Default(), f.quotes, f.invoices, f.challans, f.opps, f.products, f.keys,
		audit.NewRecorder(f.auditRepo, slog.Default()))
	return f
}

var testActor = audit.Actor{Name: "tester", SourceAddr: "127.0.0.1"}

func f64(v float64) *float64 { return &v }

// A quotation whose single line was quoted at 100 with a 10% margin: the
// stored effective rate is 110, qty 2, GST 18%.
func seedQuotation(f *fixture) *quotations.Quotation {
	code := "OPP-42"
	q := &quotations.Quotation{
		ID:              1,
		Number:          "QTN/24-25/9001",
		OpportunityCode: &code,
		CustomerName:    "Acme Traders",
		MarginPercent:   10,
		Status:          quotations.QuotationStatusDraft,
		Subtotal:        220.00,
		TaxTotal:        39.60,
		GrandTotal:      259.60,
		Lines: []quotations.QuotationLine{
			{
				ID: 1, QuotationID: 1,
				Description:   "Widget",
				HSNCode:       "8483",
				Quantity:      2,
				UnitRate:      100,
				EffectiveRate: 110,
				GSTPercent:    f64(18),
				BaseAmount:    220.00,
				TaxAmount:     39.60,
				TotalAmount:   259.60,
				LineOrder:     1,
			},
		},
	}
	f.quotes.byID[1] = q
	f.opps.byCode["OPP-42"] = &opportunities.Opportunity{ID: 1, Code: "OPP-42", Owner: "priya"}
	return q
}

func TestDeriveInvoiceFromQuotation(t *testing.T) {
	f := newFixture()
	q := seedQuotation(f)

	result, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindQuotation,
		SourceID:   q.ID,
		TargetKind: KindInvoice,
	}, testActor)
	require.NoError(t, err)
	require.Equal(t, KindInvoice, result.TargetKind)

	inv := result.Invoice
	require.NotNil(t, inv)
	require.Len(t, inv.Lines, 1)

	// The margin was applied at quotation time; the invoice carries the
	// effective rate and recomputes tax under its own conventions.
	line := inv.Lines[0]
	assert.Equal(t, 110.0, line.UnitRate)
	assert.Equal(t, 220.00, line.BaseAmount)
	assert.Equal(t, 39.60, line.TaxAmount)
	assert.Equal(t, 19.80, line.CGSTAmount)
	assert.Equal(t, 19.80, line.SGSTAmount)
	assert.Equal(t, 259.60, line.TotalAmount)

	assert.Equal(t, 220.00, inv.Subtotal)
	assert.Equal(t, 19.80, inv.CGSTTotal)
	assert.Equal(t, 19.80, inv.SGSTTotal)
	assert.Equal(t, 259.60, inv.GrandTotal)
	require.NotNil(t, inv.SourceQuotationNumber)
	assert.Equal(t, "QTN/24-25/9001", *inv.SourceQuotationNumber)

	// Back-link and conversion.
	require.NotNil(t, q.InvoiceID)
	assert.Equal(t, inv.ID, *q.InvoiceID)
	assert.Equal(t, inv.Number, *q.InvoiceNumber)
	assert.Equal(t, quotations.QuotationStatusConverted, q.Status)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, "invoice", f.auditRepo.entries[0].Entity)
	assert.Equal(t, audit.ActionCreate, f.auditRepo.entries[0].Action)
}

func TestDeriveChallanFromInvoiceCarriesOwner(t *testing.T) {
	f := newFixture()
	q := seedQuotation(f)

	invResult, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindQuotation, SourceID: q.ID, TargetKind: KindInvoice,
	}, testActor)
	require.NoError(t, err)

	dcResult, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindInvoice, SourceID: invResult.Invoice.ID, TargetKind: KindChallan,
	}, testActor)
	require.NoError(t, err)

	dc := dcResult.Challan
	require.NotNil(t, dc)
	assert.Equal(t, challans.SourceInvoice, dc.SourceKind)
	assert.Equal(t, invResult.Invoice.Number, dc.SourceNumber)
	require.NotNil(t, dc.OpportunityOwner)
	assert.Equal(t, "priya", *dc.OpportunityOwner)

	// Same goods, same money, no GST split on a challan.
	require.Len(t, dc.Lines, 1)
	assert.Equal(t, 220.00, dc.Lines[0].BaseAmount)
	assert.Equal(t, 39.60, dc.Lines[0].TaxAmount)
	assert.Equal(t, 259.60, dc.GrandTotal)

	// Invoice back-links the challan.
	inv := f.invoices.byID[invResult.Invoice.ID]
	require.NotNil(t, inv.ChallanID)
	assert.Equal(t, dc.ID, *inv.ChallanID)
}

func TestDeriveChallanDirectlyFromQuotation(t *testing.T) {
	f := newFixture()
	q := seedQuotation(f)

	result, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindQuotation, SourceID: q.ID, TargetKind: KindChallan,
	}, testActor)
	require.NoError(t, err)

	dc := result.Challan
	require.NotNil(t, dc)
	assert.Equal(t, challans.SourceQuotation, dc.SourceKind)
	assert.Equal(t, "QTN/24-25/9001", dc.SourceNumber)
	require.NotNil(t, dc.OpportunityOwner)
	assert.Equal(t, "priya", *dc.OpportunityOwner)
	require.NotNil(t, q.ChallanID)
	assert.Equal(t, dc.ID, *q.ChallanID)
}

func TestDeriveBackfillsHSNFromCatalog(t *testing.T) {
	f := newFixture()
	q := seedQuotation(f)
	pid := int64(7)
	q.Lines[0].HSNCode = ""
	q.Lines[0].ProductID = &pid
	f.products.byID[pid] = &products.Product{ID: pid, HSNCode: "8483"}

	result, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindQuotation, SourceID: q.ID, TargetKind: KindInvoice,
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "8483", result.Invoice.Lines[0].HSNCode)
}

func TestDeriveFailsHardOnUnresolvableHSN(t *testing.T) {
	f := newFixture()
	q := seedQuotation(f)
	q.Lines[0].HSNCode = ""
	q.Lines[0].ProductID = nil

	_, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindQuotation, SourceID: q.ID, TargetKind: KindInvoice,
	}, testActor)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Line)
	assert.Equal(t, "hsn_code", verr.Field)

	// Nothing was written anywhere.
	assert.Empty(t, f.invoices.byID)
	assert.Empty(t, f.keys.used)
	assert.Nil(t, q.InvoiceID)
}

func TestDeriveRejectsInvalidEdge(t *testing.T) {
	f := newFixture()
	seedQuotation(f)

	_, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindInvoice, SourceID: 1, TargetKind: KindInvoice,
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidEdge)

	_, err = f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindChallan, SourceID: 1, TargetKind: KindInvoice,
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestDeriveOwnerEnrichmentFailsSoft(t *testing.T) {
	f := newFixture()
	q := seedQuotation(f)
	delete(f.opps.byCode, "OPP-42")

	result, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindQuotation, SourceID: q.ID, TargetKind: KindChallan,
	}, testActor)
	require.NoError(t, err)
	assert.Nil(t, result.Challan.OpportunityOwner)
}

func TestDeriveReplayedKeyConflicts(t *testing.T) {
	f := newFixture()
	q := seedQuotation(f)

	req := DeriveRequest{
		SourceKind: KindQuotation, SourceID: q.ID, TargetKind: KindInvoice,
		IdempotencyKey: "retry-abc",
	}
	_, err := f.svc.Derive(context.Background(), req, testActor)
	require.NoError(t, err)

	_, err = f.svc.Derive(context.Background(), req, testActor)
	assert.ErrorIs(t, err, shared.ErrIdempotencyConflict)
	assert.Len(t, f.invoices.byID, 1)
}

func TestDeriveReleasesKeyWhenPersistFails(t *testing.T) {
	f := newFixture()
	q := seedQuotation(f)
	f.challans.failure = errors.New("storage down")

	_, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindQuotation, SourceID: q.ID, TargetKind: KindChallan,
		IdempotencyKey: "retry-def",
	}, testActor)
	require.Error(t, err)
	assert.False(t, f.keys.used["retry-def"])
}

func TestDeriveMissingSourceIsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Derive(context.Background(), DeriveRequest{
		SourceKind: KindQuotation, SourceID: 99, TargetKind: KindInvoice,
	}, testActor)
	assert.ErrorIs(t, err, quotations.ErrNotFound)
}
