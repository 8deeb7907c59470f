package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func acceptedQuotation(t *testing.T, tenantID uuid.UUID) *billing.Quotation {
	t.Helper()
	quotation, err := billing.NewQuotation(tenantID, "QUO-202608-00001", uuid.New(), "Sipho Dlamini", "sipho@example.com")
	require.NoError(t, err)
	require.NoError(t, quotation.AddLine("Office fit-out", decimal.NewFromInt(1), decimal.NewFromInt(12000)))
	require.NoError(t, quotation.Send(time.Now().Add(14*24*time.Hour)))
	require.NoError(t, quotation.Accept())
	return quotation
}

func TestQuotationService_CreateQuotation(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	service := NewQuotationService(quotationRepo, new(MockInvoiceRepository), zap.NewNop())
	tenantID := uuid.New()

	quotationRepo.On("GenerateQuotationNumber", mock.Anything, tenantID).Return("QUO-202608-00007", nil)
	quotationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Quotation")).Return(nil)

	resp, err := service.CreateQuotation(context.Background(), tenantID, CreateQuotationRequest{
		CustomerID:   uuid.New(),
		CustomerName: "Sipho Dlamini",
		Lines: []LineItemRequest{
			{Description: "Office fit-out", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(12000)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "QUO-202608-00007", resp.QuotationNumber)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(13800)), "got %s", resp.Total)
}

func TestQuotationService_SendAcceptReject(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	service := NewQuotationService(quotationRepo, new(MockInvoiceRepository), zap.NewNop())
	tenantID := uuid.New()

	quotation, err := billing.NewQuotation(tenantID, "QUO-202608-00001", uuid.New(), "Sipho Dlamini", "")
	require.NoError(t, err)
	require.NoError(t, quotation.AddLine("Office fit-out", decimal.NewFromInt(1), decimal.NewFromInt(12000)))

	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, quotation.ID).Return(quotation, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)

	resp, err := service.SendQuotation(context.Background(), tenantID, quotation.ID, SendQuotationRequest{
		ValidUntil: time.Now().Add(14 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "SENT", resp.Status)

	resp, err = service.AcceptQuotation(context.Background(), tenantID, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", resp.Status)

	// Accepted quotations cannot be rejected afterwards
	_, err = service.RejectQuotation(context.Background(), tenantID, quotation.ID, RejectQuotationRequest{Reason: "Too expensive"})
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestQuotationService_ConvertQuotation(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	service := NewQuotationService(quotationRepo, invoiceRepo, zap.NewNop())
	tenantID := uuid.New()

	quotation := acceptedQuotation(t, tenantID)

	var savedInvoice *billing.Invoice
	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, quotation.ID).Return(quotation, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, quotation).Return(nil)
	invoiceRepo.On("GenerateInvoiceNumber", mock.Anything, tenantID).Return("INV-202608-00099", nil)
	invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Invoice")).
		Run(func(args mock.Arguments) {
			savedInvoice = args.Get(1).(*billing.Invoice)
		}).Return(nil)

	resp, err := service.ConvertQuotation(context.Background(), tenantID, quotation.ID)

	require.NoError(t, err)
	assert.Equal(t, "INV-202608-00099", resp.InvoiceNumber)
	assert.Equal(t, "DRAFT", resp.Status)
	// Lines and totals carry over from the quotation
	assert.True(t, resp.Total.Equal(quotation.Total))
	require.NotNil(t, savedInvoice)
	assert.Equal(t, quotation.CustomerID, savedInvoice.CustomerID)
	require.NotNil(t, quotation.InvoiceID)
	assert.Equal(t, savedInvoice.ID, *quotation.InvoiceID)
}

func TestQuotationService_ConvertQuotation_NotAccepted(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	service := NewQuotationService(quotationRepo, invoiceRepo, zap.NewNop())
	tenantID := uuid.New()

	quotation, err := billing.NewQuotation(tenantID, "QUO-202608-00001", uuid.New(), "Sipho Dlamini", "")
	require.NoError(t, err)
	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, quotation.ID).Return(quotation, nil)

	_, err = service.ConvertQuotation(context.Background(), tenantID, quotation.ID)
	assertDomainErrorCode(t, err, "INVALID_STATE")
	invoiceRepo.AssertNotCalled(t, "Save")
}

func TestQuotationService_ConvertQuotation_AlreadyConverted(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	service := NewQuotationService(quotationRepo, invoiceRepo, zap.NewNop())
	tenantID := uuid.New()

	quotation := acceptedQuotation(t, tenantID)
	require.NoError(t, quotation.MarkConverted(uuid.New()))
	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, quotation.ID).Return(quotation, nil)

	_, err := service.ConvertQuotation(context.Background(), tenantID, quotation.ID)
	assertDomainErrorCode(t, err, "ALREADY_EXISTS")
}

func TestQuotationService_DeleteQuotation_NonDraft(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	service := NewQuotationService(quotationRepo, new(MockInvoiceRepository), zap.NewNop())
	tenantID := uuid.New()

	quotation := acceptedQuotation(t, tenantID)
	quotationRepo.On("FindByIDForTenant", mock.Anything, tenantID, quotation.ID).Return(quotation, nil)

	err := service.DeleteQuotation(context.Background(), tenantID, quotation.ID)
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestQuotationService_RunExpirySweep(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	service := NewQuotationService(quotationRepo, new(MockInvoiceRepository), zap.NewNop())
	tenantID := uuid.New()

	quotation, err := billing.NewQuotation(tenantID, "QUO-202608-00001", uuid.New(), "Sipho Dlamini", "")
	require.NoError(t, err)
	require.NoError(t, quotation.AddLine("Office fit-out", decimal.NewFromInt(1), decimal.NewFromInt(12000)))
	require.NoError(t, quotation.Send(time.Now().Add(24*time.Hour)))

	asOf := time.Now().Add(48 * time.Hour)
	quotationRepo.On("FindLapsed", mock.Anything, asOf, 200).Return([]billing.Quotation{*quotation}, nil)
	quotationRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*billing.Quotation")).Return(nil)

	expired, err := service.RunExpirySweep(context.Background(), asOf)

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
}
