package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warungos/datastore/events"
	catalogdomain "github.com/warungos/datastore/internal/catalog/domain"
	catalogrepo "github.com/warungos/datastore/internal/catalog/repository"
	invdomain "github.com/warungos/datastore/internal/inventory/domain"
	invrepo "github.com/warungos/datastore/internal/inventory/repository"
	paydomain "github.com/warungos/datastore/internal/payment/domain"
	payrepo "github.com/warungos/datastore/internal/payment/repository"
	"github.com/warungos/datastore/internal/sales/domain"
	"github.com/warungos/datastore/internal/sales/usecase/command"
	userdomain "github.com/warungos/datastore/internal/user/domain"
	userrepo "github.com/warungos/datastore/internal/user/repository"
	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/query"
)

func testClient(t *testing.T) *database.Client {
	t.Helper()
	if os.Getenv("DATASTORE_TEST_DB") == "" {
		t.Skip("set DATASTORE_TEST_DB=1 and DB_* variables to run postgres integration tests")
	}

	client, err := database.Open(database.LoadConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Migrate(ctx,
		&userdomain.User{},
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&invdomain.Inventory{},
		&domain.Sale{},
		&domain.SaleItem{},
		&paydomain.Payment{},
		&invdomain.StockMovement{},
	))
	return client
}

func seedProduct(t *testing.T, client *database.Client, name string, price int64) *catalogdomain.Product {
	t.Helper()
	products := catalogrepo.NewGormProductRepository(client.DB())
	sku := fmt.Sprintf("SKU-%s-%d", name, testStamp(t))
	product := &catalogdomain.Product{Name: name, SKU: &sku, Price: price}
	require.NoError(t, products.Create(context.Background(), product))
	t.Cleanup(func() {
		_, _ = products.DeleteMany(context.Background(), query.Where("id = ?", product.ID))
	})
	return product
}

func seedCashier(t *testing.T, client *database.Client) *userdomain.User {
	t.Helper()
	users := userrepo.NewGormUserRepository(client.DB())
	cashier := &userdomain.User{
		Name:  "Kasir Integrasi",
		Email: fmt.Sprintf("kasir-%d@warung.id", testStamp(t)),
		Role:  userdomain.RoleCashier,
	}
	require.NoError(t, users.Create(context.Background(), cashier))
	t.Cleanup(func() {
		_, _ = users.DeleteMany(context.Background(), query.Where("id = ?", cashier.ID))
	})
	return cashier
}

func testStamp(t *testing.T) int64 {
	t.Helper()
	return time.Now().UnixNano()
}

func TestSaleRoundTrip(t *testing.T) {
	client := testClient(t)
	sales := NewGormSaleRepository(client.DB())
	cashier := seedCashier(t, client)
	ctx := context.Background()

	sale := &domain.Sale{CashierID: cashier.ID}
	require.NoError(t, sales.Create(ctx, sale))
	t.Cleanup(func() {
		_, _ = sales.DeleteMany(ctx, query.Where("id = ?", sale.ID))
	})

	require.NotEmpty(t, sale.Number, "a receipt number is assigned on insert")
	require.Equal(t, domain.SalePending, sale.Status)

	found, err := sales.FindByNumber(ctx, sale.Number)
	require.NoError(t, err)
	require.Equal(t, sale.ID, found.ID)
	require.Equal(t, cashier.ID, found.CashierID)

	byCashier, err := sales.FindByCashier(ctx, cashier.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, byCashier, 1)
}

func TestDuplicateUniqueCreate(t *testing.T) {
	client := testClient(t)
	sales := NewGormSaleRepository(client.DB())
	cashier := seedCashier(t, client)
	ctx := context.Background()

	number := fmt.Sprintf("WRG-IT-%d", testStamp(t))
	first := &domain.Sale{Number: number, CashierID: cashier.ID}
	require.NoError(t, sales.Create(ctx, first))
	t.Cleanup(func() {
		_, _ = sales.DeleteMany(ctx, query.Where("number = ?", number))
	})

	err := sales.Create(ctx, &domain.Sale{Number: number, CashierID: cashier.ID})
	require.True(t, errors.Is(err, database.ErrUniqueViolation))
}

func TestDeleteThenNotFound(t *testing.T) {
	client := testClient(t)
	sales := NewGormSaleRepository(client.DB())
	cashier := seedCashier(t, client)
	ctx := context.Background()

	sale := &domain.Sale{CashierID: cashier.ID}
	require.NoError(t, sales.Create(ctx, sale))

	deleted, err := sales.Delete(ctx, "id", sale.ID)
	require.NoError(t, err)
	require.Equal(t, sale.Number, deleted.Number, "delete returns the removed row")

	_, err = sales.FindByID(ctx, sale.ID)
	require.True(t, errors.Is(err, database.ErrNotFound))

	_, err = sales.Delete(ctx, "id", sale.ID)
	require.True(t, errors.Is(err, database.ErrNotFound))
}

func TestUpdateMissingRow(t *testing.T) {
	client := testClient(t)
	sales := NewGormSaleRepository(client.DB())
	ctx := context.Background()

	_, err := sales.Update(ctx, "id", uint(0), map[string]any{"customer_name": "nobody"})
	require.True(t, errors.Is(err, database.ErrNotFound))

	n, err := sales.UpdateMany(ctx, query.Where("number = ?", "no-such-number"), map[string]any{"total": 0})
	require.NoError(t, err, "bulk update of nothing is not an error")
	require.Zero(t, n)
}

func TestForeignKeyViolation(t *testing.T) {
	client := testClient(t)
	products := catalogrepo.NewGormProductRepository(client.DB())
	ctx := context.Background()

	missing := uint(4294967000)
	err := products.Create(ctx, &catalogdomain.Product{Name: "orphan", Price: 100, CategoryID: &missing})
	require.True(t, errors.Is(err, database.ErrForeignKeyViolation))
}

func TestDeleteBlockedByDependents(t *testing.T) {
	client := testClient(t)
	categories := catalogrepo.NewGormCategoryRepository(client.DB())
	products := catalogrepo.NewGormProductRepository(client.DB())
	ctx := context.Background()

	category := &catalogdomain.Category{Name: fmt.Sprintf("minuman-%d", testStamp(t))}
	require.NoError(t, categories.Create(ctx, category))

	product := &catalogdomain.Product{Name: "es-teh", Price: 3000, CategoryID: &category.ID}
	require.NoError(t, products.Create(ctx, product))
	t.Cleanup(func() {
		_, _ = products.DeleteMany(ctx, query.Where("id = ?", product.ID))
		_, _ = categories.DeleteMany(ctx, query.Where("id = ?", category.ID))
	})

	_, err := categories.Delete(ctx, "id", category.ID)
	require.True(t, errors.Is(err, database.ErrForeignKeyViolation), "a category with products cannot be removed")
}

func TestConcurrentStockDeltasConverge(t *testing.T) {
	client := testClient(t)
	product := seedProduct(t, client, "kopi", 5000)
	stock := invrepo.NewGormInventoryRepository(client.DB())
	ctx := context.Background()

	t.Cleanup(func() {
		_, _ = stock.DeleteMany(ctx, query.Where("product_id = ?", product.ID))
	})

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = stock.ApplyDelta(ctx, product.ID, 3, false)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	row, err := stock.FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(workers*3), row.QtyOnHand, "concurrent upserts land on one row")
}

func TestDecrementBelowZeroRefused(t *testing.T) {
	client := testClient(t)
	product := seedProduct(t, client, "teh", 3000)
	stock := invrepo.NewGormInventoryRepository(client.DB())
	ctx := context.Background()

	require.NoError(t, stock.ApplyDelta(ctx, product.ID, 2, false))
	t.Cleanup(func() {
		_, _ = stock.DeleteMany(ctx, query.Where("product_id = ?", product.ID))
	})

	err := stock.ApplyDelta(ctx, product.ID, -3, false)
	require.True(t, errors.Is(err, invdomain.ErrInsufficientStock))

	row, err := stock.FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), row.QtyOnHand, "refused decrement leaves stock untouched")

	require.NoError(t, stock.ApplyDelta(ctx, product.ID, -3, true))
	row, err = stock.FindByProductID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(-1), row.QtyOnHand)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	client := testClient(t)
	sales := NewGormSaleRepository(client.DB())
	cashier := seedCashier(t, client)
	ctx := context.Background()

	number := fmt.Sprintf("WRG-RB-%d", testStamp(t))
	boom := errors.New("boom")
	err := client.Transaction(ctx, func(ctx context.Context) error {
		if err := sales.Create(ctx, &domain.Sale{Number: number, CashierID: cashier.ID}); err != nil {
			return err
		}
		return boom
	})
	require.True(t, errors.Is(err, boom))
	require.False(t, errors.Is(err, database.ErrUnknown), "a business error is not relabeled as a storage failure")

	_, err = sales.FindByNumber(ctx, number)
	require.True(t, errors.Is(err, database.ErrNotFound), "failed transaction leaves no sale behind")
}

func TestSaleAggregates(t *testing.T) {
	client := testClient(t)
	sales := NewGormSaleRepository(client.DB())
	cashier := seedCashier(t, client)
	ctx := context.Background()

	for _, total := range []int64{1000, 2000, 3000} {
		sale := &domain.Sale{CashierID: cashier.ID, Status: domain.SalePaid, Total: total}
		require.NoError(t, sales.Create(ctx, sale))
	}
	t.Cleanup(func() {
		_, _ = sales.DeleteMany(ctx, query.Where("cashier_id = ?", cashier.ID))
	})

	agg, err := sales.Aggregate(ctx,
		query.Options{Filter: query.Where("cashier_id = ?", cashier.ID)},
		query.Aggregation{Count: true, Sum: []string{"total"}, Avg: []string{"total"}, Min: []string{"total"}, Max: []string{"total"}},
	)
	require.NoError(t, err)
	require.Equal(t, int64(3), agg.Count)
	require.InDelta(t, 6000, agg.Sum["total"], 0.001)
	require.InDelta(t, 2000, agg.Avg["total"], 0.001)
	require.InDelta(t, 1000, agg.Min["total"], 0.001)
	require.InDelta(t, 3000, agg.Max["total"], 0.001)

	rows, err := sales.GroupBy(ctx, query.GroupBySpec{
		By:     []string{"status"},
		Filter: query.Where("cashier_id = ?", cashier.ID),
		Agg:    query.Aggregation{Count: true, Sum: []string{"total"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = sales.GroupBy(ctx, query.GroupBySpec{
		By:     []string{"status"},
		Filter: query.Where("cashier_id = ?", cashier.ID),
		Having: []query.HavingTerm{{Column: "total", Aggregate: "sum", Op: ">", Value: 10000}},
		Agg:    query.Aggregation{Count: true},
	})
	require.NoError(t, err)
	require.Empty(t, rows, "having filters out groups below the threshold")

	_, err = sales.GroupBy(ctx, query.GroupBySpec{
		By:     []string{"status"},
		Having: []query.HavingTerm{{Column: "cashier_id", Op: ">", Value: 1}},
	})
	require.True(t, errors.Is(err, database.ErrValidation), "having over an ungrouped column never reaches the database")
}

func TestCursorPagination(t *testing.T) {
	client := testClient(t)
	sales := NewGormSaleRepository(client.DB())
	cashier := seedCashier(t, client)
	ctx := context.Background()

	created := make([]domain.Sale, 0, 5)
	for i := 0; i < 5; i++ {
		sale := domain.Sale{CashierID: cashier.ID}
		require.NoError(t, sales.Create(ctx, &sale))
		created = append(created, sale)
	}
	t.Cleanup(func() {
		_, _ = sales.DeleteMany(ctx, query.Where("cashier_id = ?", cashier.ID))
	})

	filter := query.Where("cashier_id = ?", cashier.ID)
	page, err := sales.FindMany(ctx, query.Options{
		Filter:  filter,
		OrderBy: []query.Order{{Column: "id"}},
		Cursor:  &query.Cursor{Column: "id", Value: created[2].ID},
	})
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.Equal(t, created[2].ID, page[0].ID, "the cursor row itself is included")

	// skip 1 excludes the cursor row
	page, err = sales.FindMany(ctx, query.Options{
		Filter:  filter,
		OrderBy: []query.Order{{Column: "id"}},
		Cursor:  &query.Cursor{Column: "id", Value: created[2].ID},
		Skip:    1,
		Take:    1,
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, created[3].ID, page[0].ID)

	// descending cursor walks backwards
	page, err = sales.FindMany(ctx, query.Options{
		Filter:  filter,
		OrderBy: []query.Order{{Column: "id", Desc: true}},
		Cursor:  &query.Cursor{Column: "id", Value: created[2].ID},
	})
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.Equal(t, created[2].ID, page[0].ID)
}

func TestRawSQLEscapeHatch(t *testing.T) {
	client := testClient(t)
	sales := NewGormSaleRepository(client.DB())
	cashier := seedCashier(t, client)
	ctx := context.Background()

	sale := &domain.Sale{CashierID: cashier.ID, Status: domain.SalePaid, Total: 7500}
	require.NoError(t, sales.Create(ctx, sale))
	t.Cleanup(func() {
		_, _ = sales.DeleteMany(ctx, query.Where("id = ?", sale.ID))
	})

	rows, err := client.RawQuery(ctx,
		"SELECT number, total FROM sales WHERE cashier_id = ? AND status = ?",
		cashier.ID, domain.SalePaid,
	)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, sale.Number, rows[0]["number"])

	n, err := client.RawExec(ctx,
		"UPDATE sales SET customer_name = ? WHERE id = ?",
		"Pelanggan Setia", sale.ID,
	)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	found, err := sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CustomerName)
	require.Equal(t, "Pelanggan Setia", *found.CustomerName)
}

func TestFinalizeSaleScenario(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	cashier := seedCashier(t, client)
	kopi := seedProduct(t, client, "kopi-final", 5000)
	teh := seedProduct(t, client, "teh-final", 3000)

	sales := NewGormSaleRepository(client.DB())
	items := NewGormItemRepository(client.DB())
	payments := payrepo.NewGormPaymentRepository(client.DB())
	stock := invrepo.NewGormInventoryRepository(client.DB())
	movements := invrepo.NewGormMovementRepository(client.DB())

	require.NoError(t, stock.ApplyDelta(ctx, kopi.ID, 10, false))
	require.NoError(t, stock.ApplyDelta(ctx, teh.ID, 10, false))

	sale := &domain.Sale{CashierID: cashier.ID}
	require.NoError(t, sales.Create(ctx, sale))
	_, err := items.CreateMany(ctx, []domain.SaleItem{
		{SaleID: sale.ID, ProductID: kopi.ID, Qty: 2, Price: 5000, Subtotal: 10000},
		{SaleID: sale.ID, ProductID: teh.ID, Qty: 3, Price: 3000, Subtotal: 9000},
	}, false)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = movements.DeleteMany(ctx, query.Where("ref_sale_id = ?", sale.ID))
		_, _ = payments.DeleteMany(ctx, query.Where("sale_id = ?", sale.ID))
		_, _ = items.DeleteMany(ctx, query.Where("sale_id = ?", sale.ID))
		_, _ = sales.DeleteMany(ctx, query.Where("id = ?", sale.ID))
		_, _ = stock.DeleteMany(ctx, query.Where("product_id IN ?", []uint{kopi.ID, teh.ID}))
	})

	handler := command.NewFinalizeSaleHandler(client, sales, items, payments, stock, movements, events.NoopSink{})
	finalized, err := handler.Handle(ctx, command.FinalizeSaleCommand{SaleID: sale.ID, Method: paydomain.MethodCash})
	require.NoError(t, err)
	require.Equal(t, domain.SalePaid, finalized.Status)
	require.Equal(t, int64(19000), finalized.Total)

	kopiStock, err := stock.FindByProductID(ctx, kopi.ID)
	require.NoError(t, err)
	require.Equal(t, int64(8), kopiStock.QtyOnHand)

	paid, err := payments.FindBySale(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	require.Equal(t, int64(19000), paid[0].Amount)
	require.Equal(t, paydomain.PaymentPaid, paid[0].Status)

	ledger, err := movements.FindBySale(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	for _, m := range ledger {
		require.Equal(t, invdomain.MovementSale, m.Type)
		require.Negative(t, m.QtyDelta)
	}

	// settled sales cannot be finalized again
	_, err = handler.Handle(ctx, command.FinalizeSaleCommand{SaleID: sale.ID, Method: paydomain.MethodCash})
	require.True(t, errors.Is(err, database.ErrValidation))
}
