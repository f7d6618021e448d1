package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	schema := `
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT UNIQUE, name TEXT, password_hash TEXT,
	  role TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE products(id TEXT PRIMARY KEY, name TEXT, slug TEXT, description TEXT,
	  price NUMERIC, cost NUMERIC DEFAULT 0, category TEXT, brand TEXT, sku TEXT,
	  quantity INTEGER CHECK (quantity >= 0), sold INTEGER DEFAULT 0, images_json TEXT,
	  rating NUMERIC DEFAULT 0, num_reviews INTEGER DEFAULT 0, active INTEGER DEFAULT 1,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE carts(id TEXT PRIMARY KEY, user_id TEXT UNIQUE NOT NULL,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE cart_items(id TEXT PRIMARY KEY, cart_id TEXT, product_id TEXT,
	  qty INTEGER, price NUMERIC, line_total NUMERIC, created_at TEXT, updated_at TEXT,
	  UNIQUE(cart_id, product_id));
	CREATE TABLE orders(id TEXT PRIMARY KEY, user_id TEXT,
	  ship_address TEXT, ship_city TEXT, ship_postal_code TEXT, ship_country TEXT,
	  payment_method TEXT, items_price NUMERIC, tax_price NUMERIC DEFAULT 0,
	  shipping_price NUMERIC DEFAULT 0, total_price NUMERIC,
	  status TEXT DEFAULT 'created', is_paid INTEGER DEFAULT 0, paid_at TEXT,
	  is_delivered INTEGER DEFAULT 0, delivered_at TEXT,
	  payment_id TEXT, payment_status TEXT, payment_email TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE order_items(order_id TEXT, product_id TEXT, name TEXT, qty INTEGER,
	  price NUMERIC, PRIMARY KEY(order_id, product_id));
	CREATE TABLE reviews(id TEXT PRIMARY KEY, product_id TEXT, user_id TEXT,
	  rating INTEGER, comment TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	  UNIQUE(product_id, user_id));

	INSERT INTO users(id,email,name,password_hash,role) VALUES
	  ('u-1','one@test.local','One','x','USER'),
	  ('u-2','two@test.local','Two','x','USER');
	INSERT INTO products(id,name,slug,price,category,sku,quantity) VALUES
	  ('prod-a','Product A','product-a',10.0,'Electronics','SKU-A',5),
	  ('prod-b','Product B','product-b',25.0,'Home','SKU-B',3);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newOrderFixture(t *testing.T) (*sqlx.DB, *services.CartService, *services.OrderService, *repos.ProductRepo, *repos.OrderRepo) {
	t.Helper()
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo)
	return db, cartSvc, orderSvc, prodRepo, orderRepo
}

var testShipping = domain.Address{
	Address: "1 Main St", City: "Springfield", PostalCode: "20742", Country: "US",
}

func TestPlaceOrder_Success(t *testing.T) {
	db, cartSvc, orderSvc, prodRepo, orderRepo := newOrderFixture(t)

	_, err := cartSvc.Add("u-1", "prod-a", 2)
	require.NoError(t, err)

	order, err := orderSvc.Place("u-1", services.PlaceOrderInput{
		Shipping:      testShipping,
		PaymentMethod: "stripe",
		TaxPrice:      1.50,
		ShippingPrice: 4.00,
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.Equal(t, domain.OrderStatusCreated, order.Status)

	// items are the cart lines at placement time
	require.Len(t, order.Items, 1)
	require.Equal(t, "prod-a", order.Items[0].ProductID)
	require.Equal(t, 2, order.Items[0].Qty)
	require.Equal(t, 10.0, order.Items[0].Price)
	require.Equal(t, 20.0, order.ItemsPrice)
	require.Equal(t, 25.5, order.TotalPrice)

	// inventory ledger adjusted exactly
	p, err := prodRepo.Get("prod-a")
	require.NoError(t, err)
	require.Equal(t, 3, p.Quantity)
	require.Equal(t, 2, p.Sold)

	// cart is gone
	_, err = cartSvc.Get("u-1")
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	// order is durable
	got, err := orderRepo.Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)
	require.Len(t, got.Items, 1)
	require.False(t, got.IsPaid)

	var cartRows int
	require.NoError(t, db.Get(&cartRows, `SELECT COUNT(*) FROM cart_items`))
	require.Zero(t, cartRows)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	db, cartSvc, orderSvc, prodRepo, _ := newOrderFixture(t)

	// prod-b has 3 available; ask for more than stock by seeding the line
	// then shrinking stock underneath it
	_, err := cartSvc.Add("u-1", "prod-b", 3)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE products SET quantity = 2 WHERE id = 'prod-b'`)
	require.NoError(t, err)

	_, err = orderSvc.Place("u-1", services.PlaceOrderInput{
		Shipping: testShipping, PaymentMethod: "paypal",
	})
	var stock *domain.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	require.Equal(t, "prod-b", stock.ProductID)
	require.Equal(t, 2, stock.Available)

	// nothing changed: cart intact, inventory intact, no order rows
	cart, err := cartSvc.Get("u-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	p, err := prodRepo.Get("prod-b")
	require.NoError(t, err)
	require.Equal(t, 2, p.Quantity)
	require.Zero(t, p.Sold)

	var orderRows int
	require.NoError(t, db.Get(&orderRows, `SELECT COUNT(*) FROM orders`))
	require.Zero(t, orderRows)
}

func TestPlaceOrder_MixedCartAbortsWhole(t *testing.T) {
	db, cartSvc, orderSvc, prodRepo, _ := newOrderFixture(t)

	_, err := cartSvc.Add("u-1", "prod-a", 2) // fine: 5 available
	require.NoError(t, err)
	_, err = cartSvc.Add("u-1", "prod-b", 3) // will be short
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE products SET quantity = 1 WHERE id = 'prod-b'`)
	require.NoError(t, err)

	_, err = orderSvc.Place("u-1", services.PlaceOrderInput{
		Shipping: testShipping, PaymentMethod: "stripe",
	})
	var stock *domain.InsufficientStockError
	require.ErrorAs(t, err, &stock)

	// the in-stock line must not have been decremented either
	p, err := prodRepo.Get("prod-a")
	require.NoError(t, err)
	require.Equal(t, 5, p.Quantity)
	require.Zero(t, p.Sold)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	db, cartSvc, orderSvc, _, _ := newOrderFixture(t)

	// no cart at all
	_, err := orderSvc.Place("u-1", services.PlaceOrderInput{
		Shipping: testShipping, PaymentMethod: "stripe",
	})
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	// cart exists but has zero items
	_, err = cartSvc.Add("u-2", "prod-a", 1)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM cart_items`)
	require.NoError(t, err)

	_, err = orderSvc.Place("u-2", services.PlaceOrderInput{
		Shipping: testShipping, PaymentMethod: "stripe",
	})
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	var orderRows int
	require.NoError(t, db.Get(&orderRows, `SELECT COUNT(*) FROM orders`))
	require.Zero(t, orderRows)
}

func TestPlaceOrder_PriceSnapshotWins(t *testing.T) {
	db, cartSvc, orderSvc, _, _ := newOrderFixture(t)

	_, err := cartSvc.Add("u-1", "prod-a", 1)
	require.NoError(t, err)
	// price change after add must not affect what the customer pays
	_, err = db.Exec(`UPDATE products SET price = 99.0 WHERE id = 'prod-a'`)
	require.NoError(t, err)

	order, err := orderSvc.Place("u-1", services.PlaceOrderInput{
		Shipping: testShipping, PaymentMethod: "razorpay",
	})
	require.NoError(t, err)
	require.Equal(t, 10.0, order.Items[0].Price)
	require.Equal(t, 10.0, order.TotalPrice)
}

func TestOrderAccess_OwnerOrAdminOnly(t *testing.T) {
	_, cartSvc, orderSvc, _, _ := newOrderFixture(t)

	_, err := cartSvc.Add("u-1", "prod-a", 1)
	require.NoError(t, err)
	order, err := orderSvc.Place("u-1", services.PlaceOrderInput{
		Shipping: testShipping, PaymentMethod: "stripe",
	})
	require.NoError(t, err)

	owner := &domain.User{ID: "u-1", Role: "USER"}
	other := &domain.User{ID: "u-2", Role: "USER"}
	admin := &domain.User{ID: "u-x", Role: "ADMIN"}

	_, err = orderSvc.GetForUser(order.ID, owner)
	require.NoError(t, err)
	_, err = orderSvc.GetForUser(order.ID, admin)
	require.NoError(t, err)
	_, err = orderSvc.GetForUser(order.ID, other)
	require.ErrorIs(t, err, domain.ErrForbidden)
}
