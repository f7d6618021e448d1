package repos_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, id string, price float64, qty int) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO products(id,name,slug,description,price,category,sku,quantity)
	  VALUES(?,?,?,?,?,'Electronics',?,?)
	`, id, "Test "+id, "test-"+id, "", price, "SKU-"+id, qty)
	require.NoError(t, err)
}

func TestGet_NullableColumnsComeBackEmpty(t *testing.T) {
	db := testDB(t)
	repo := repos.NewProductRepo(db)

	// description, brand and images_json are all nullable in the schema
	_, err := db.Exec(`
	  INSERT INTO products(id,name,slug,price,category,sku,quantity)
	  VALUES('bare','Bare Product','bare-product',9.99,'Other','SKU-bare',1)
	`)
	require.NoError(t, err)

	p, err := repo.Get("bare")
	require.NoError(t, err)
	require.Empty(t, p.Description)
	require.Empty(t, p.Brand)
	require.Equal(t, "[]", p.ImagesJSON)

	p, err = repo.GetBySlug("bare-product")
	require.NoError(t, err)
	require.Equal(t, "bare", p.ID)
}

func TestAdjustInventory_FloorGuard(t *testing.T) {
	db := testDB(t)
	repo := repos.NewProductRepo(db)
	seedProduct(t, db, "p1", 10, 5)

	require.NoError(t, repo.AdjustInventory(db, "p1", 3))

	p, err := repo.Get("p1")
	require.NoError(t, err)
	require.Equal(t, 2, p.Quantity)
	require.Equal(t, 3, p.Sold)

	// asking for more than remains leaves counters untouched
	err = repo.AdjustInventory(db, "p1", 3)
	var stock *domain.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	require.Equal(t, "p1", stock.ProductID)
	require.Equal(t, 2, stock.Available)

	p, err = repo.Get("p1")
	require.NoError(t, err)
	require.Equal(t, 2, p.Quantity)
	require.Equal(t, 3, p.Sold)

	// draining to exactly zero is allowed
	require.NoError(t, repo.AdjustInventory(db, "p1", 2))
	qty, err := repo.Qty("p1")
	require.NoError(t, err)
	require.Zero(t, qty)
}

func TestAdjustInventory_UnknownProduct(t *testing.T) {
	db := testDB(t)
	repo := repos.NewProductRepo(db)

	err := repo.AdjustInventory(db, "ghost", 1)
	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAdjustInventory_InsideTransaction(t *testing.T) {
	db := testDB(t)
	repo := repos.NewProductRepo(db)
	seedProduct(t, db, "p1", 10, 5)

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.AdjustInventory(tx, "p1", 4))
	require.NoError(t, tx.Rollback())

	// rollback restores stock
	qty, err := repo.Qty("p1")
	require.NoError(t, err)
	require.Equal(t, 5, qty)
}

func TestSetQtyAndGet(t *testing.T) {
	db := testDB(t)
	repo := repos.NewProductRepo(db)
	seedProduct(t, db, "p1", 10, 1)

	require.NoError(t, repo.SetQty("p1", 40))
	qty, err := repo.Qty("p1")
	require.NoError(t, err)
	require.Equal(t, 40, qty)

	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, repo.SetQty("ghost", 1), &notFound)
	_, err = repo.Qty("ghost")
	require.ErrorAs(t, err, &notFound)
}

func TestProductList_Filters(t *testing.T) {
	db := testDB(t)
	repo := repos.NewProductRepo(db)

	// start from a clean catalog so seeded demo rows don't interfere
	_, err := db.Exec(`DELETE FROM products`)
	require.NoError(t, err)
	seedProduct(t, db, "a", 10, 5)
	_, err = db.Exec(`
	  INSERT INTO products(id,name,slug,description,price,category,sku,quantity,active)
	  VALUES('b','Wool Blanket','wool-blanket','warm and heavy',30,'Home','SKU-b',2,1),
	        ('c','Hidden Item','hidden-item','',5,'Home','SKU-c',1,0)
	`)
	require.NoError(t, err)

	all, err := repo.List("", "", 20, 0)
	require.NoError(t, err)
	require.Len(t, all, 2) // inactive row excluded

	home, err := repo.List("Home", "", 20, 0)
	require.NoError(t, err)
	require.Len(t, home, 1)
	require.Equal(t, "b", home[0].ID)

	byDesc, err := repo.List("", "heavy", 20, 0)
	require.NoError(t, err)
	require.Len(t, byDesc, 1)
	require.Equal(t, "b", byDesc[0].ID)
}
