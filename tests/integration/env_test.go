package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogapp "github.com/orderdesk/backend/internal/application/catalog"
	inventoryapp "github.com/orderdesk/backend/internal/application/inventory"
	invoiceapp "github.com/orderdesk/backend/internal/application/invoice"
	orderapp "github.com/orderdesk/backend/internal/application/order"
	returnsapp "github.com/orderdesk/backend/internal/application/returns"
	"github.com/orderdesk/backend/internal/infrastructure/persistence"
	auditrecorder "github.com/orderdesk/backend/internal/infrastructure/persistence/audit"
	"github.com/orderdesk/backend/tests/testutil"
)

// testEnv wires the real repositories and services against a containerized
// PostgreSQL, mirroring the production wiring in cmd/server.
type testEnv struct {
	db             *TestDB
	productRepo    *persistence.GormProductRepository
	orderRepo      *persistence.GormOrderRepository
	returnRepo     *persistence.GormReturnRepository
	invoiceRepo    *persistence.GormInvoiceRepository
	movementRepo   *persistence.GormStockMovementRepository
	auditRepo      *persistence.GormAuditRepository
	productService *catalogapp.ProductService
	orderService   *orderapp.OrderService
	stockService   *inventoryapp.StockLedgerService
	returnService  *returnsapp.ReturnService
	invoiceService *invoiceapp.InvoiceService
}

// memoryRenderer stands in for the HTML renderer so invoice tests do not
// touch the filesystem or S3.
type memoryRenderer struct{}

func (memoryRenderer) RenderInvoice(_ context.Context, doc invoiceapp.Document) (string, error) {
	return "memory://invoices/" + doc.InvoiceNumber + ".html", nil
}

func (memoryRenderer) DiscardInvoice(_ context.Context, _ string) error {
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := NewTestDB(t)
	auditrecorder.EnableAuditTrail(db.DB)

	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	txScope := persistence.NewGormTransactionScopeWithLockTimeout(db.DB, 5*time.Second)

	invoiceService := invoiceapp.NewInvoiceService(invoiceRepo, orderRepo, memoryRenderer{})

	return &testEnv{
		db:             db,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		returnRepo:     returnRepo,
		invoiceRepo:    invoiceRepo,
		movementRepo:   movementRepo,
		auditRepo:      auditRepo,
		productService: catalogapp.NewProductService(productRepo),
		orderService:   orderapp.NewOrderService(txScope, orderRepo, productRepo),
		stockService:   inventoryapp.NewStockLedgerService(txScope, productRepo, movementRepo),
		returnService:  returnsapp.NewReturnService(txScope, returnRepo, orderRepo),
		invoiceService: invoiceService,
	}
}

// newReaper builds a draft reaper against the env's order repository.
func (e *testEnv) newReaper(maxAge time.Duration) *orderapp.DraftReaperService {
	return orderapp.NewDraftReaperService(e.orderRepo, zap.NewNop(), maxAge)
}

// seedProduct creates an active product and optionally receives initial
// stock through the ledger.
func (e *testEnv) seedProduct(t *testing.T, sku string, piecesPerCase, onHand int64) catalogapp.ProductResponse {
	t.Helper()

	ctx := testutil.AdminContext()
	admin := testutil.AdminActor()

	created, err := e.productService.Create(ctx, admin, catalogapp.CreateProductRequest{
		SKUCode:       sku,
		Name:          "Product " + sku,
		PricePerPiece: decimal.RequireFromString("2.50"),
		PiecesPerCase: piecesPerCase,
	})
	require.NoError(t, err, "Failed to seed product")

	if onHand > 0 {
		_, err = e.stockService.Restock(ctx, admin, created.ID, inventoryapp.RestockRequest{
			Pieces: onHand,
			Note:   "initial receipt",
		})
		require.NoError(t, err, "Failed to seed stock")
	}

	return *created
}

// newDraftWithLine creates a staff-owned draft order holding one line.
func (e *testEnv) newDraftWithLine(t *testing.T, productID uuid.UUID, cases int64) orderapp.OrderResponse {
	t.Helper()

	created, err := e.orderService.Create(testutil.StaffContext(), testutil.StaffActor(), orderapp.CreateOrderRequest{
		PaymentMethod: "CASH",
		Lines: []orderapp.CreateOrderLineRequest{
			{ProductID: productID, CasesOrdered: cases},
		},
	})
	require.NoError(t, err, "Failed to create draft order")

	return *created
}

// confirmOrder confirms a draft as admin and returns the updated order.
func (e *testEnv) confirmOrder(t *testing.T, orderID uuid.UUID) orderapp.OrderResponse {
	t.Helper()

	confirmed, err := e.orderService.Confirm(testutil.AdminContext(), testutil.AdminActor(), orderID)
	require.NoError(t, err, "Failed to confirm order")

	return *confirmed
}

// stockLevel reads the current on-hand count through the ledger service.
func (e *testEnv) stockLevel(t *testing.T, productID uuid.UUID) int64 {
	t.Helper()

	level, err := e.stockService.GetStockLevel(context.Background(), productID)
	require.NoError(t, err, "Failed to read stock level")

	return level.OnHandPieces
}

// movementsByReason lists a product's movements filtered to one reason.
func (e *testEnv) movementsByReason(t *testing.T, productID uuid.UUID, reason string) []inventoryapp.StockMovementResponse {
	t.Helper()

	movements, _, err := e.stockService.ListMovements(context.Background(), productID, inventoryapp.MovementListFilter{
		Page:     1,
		PageSize: 100,
		Reason:   &reason,
	})
	require.NoError(t, err, "Failed to list movements")

	return movements
}
