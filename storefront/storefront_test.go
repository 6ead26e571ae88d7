package storefront

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dendyfood/dendyfood-api/controllers"
	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/lang"
	"github.com/dendyfood/dendyfood-api/models"
	"github.com/dendyfood/dendyfood-api/routes"
	"github.com/dendyfood/dendyfood-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	testAdmin    = "admin"
	testPassword = "secret123"
)

type recorder struct {
	notices []Notice
}

func (r *recorder) Toast(n Notice) { r.notices = append(r.notices, n) }

func (r *recorder) last() Notice {
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

// startAPI serves the real router over a seeded in-memory catalog.
func startAPI(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := initializers.OpenDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := initializers.SyncDatabase(db); err != nil {
		t.Fatal(err)
	}
	if err := initializers.Seed(db); err != nil {
		t.Fatal(err)
	}
	if err := initializers.BootstrapAdmin(db, testAdmin, testPassword); err != nil {
		t.Fatal(err)
	}

	cfg := initializers.DefaultConfig()
	cfg.JWTSecret = "test-secret"
	cfg.LoginRatePerMinute = 1000
	cfg.UploadDir = t.TempDir()

	initializers.DB = db
	initializers.Cfg = cfg
	controllers.MenuSnapshots = &utils.MemorySnapshotStore{}
	controllers.Notifier = utils.Notifiers{}
	controllers.Images = utils.LocalImageStore{Dir: cfg.UploadDir}

	srv := httptest.NewServer(routes.SetupRouter(cfg))
	t.Cleanup(srv.Close)
	return srv, db
}

func itemNamed(t *testing.T, items []models.FoodItem, nameUz string) models.FoodItem {
	t.Helper()
	for _, item := range items {
		if item.NameUz == nameUz {
			return item
		}
	}
	t.Fatalf("menu has no %q", nameUz)
	return models.FoodItem{}
}

func TestPlaceOrder(t *testing.T) {
	srv, db := startAPI(t)
	client := NewClient(srv.URL, time.Second)
	toasts := &recorder{}
	s := New(client, NewMenuService(client), toasts, lang.Uz)

	menu := s.LoadMenu(context.Background())
	if menu.Stale || len(menu.Items) != len(models.DefaultMenu()) {
		t.Fatalf("menu: stale=%v items=%d", menu.Stale, len(menu.Items))
	}

	a := itemNamed(t, menu.Items, "Hotdog 5 tasi 1 da")
	b := itemNamed(t, menu.Items, "Ice-Tea")
	s.AddToCart(a)
	s.AddToCart(b)
	s.AddToCart(a)

	if s.TotalPrice() != models.Soum(25000) || s.CartCount() != 3 {
		t.Fatalf("total = %s, count = %d", s.TotalPrice(), s.CartCount())
	}
	if got := toasts.last(); got.Title != "Qo'shildi" || got.Description != "Hotdog 5 tasi 1 da savatchaga qo'shildi" {
		t.Errorf("add notice = %+v", got)
	}

	s.SetPaymentMethod(models.PaymentCard)
	s.OpenCheckout()
	order, err := s.PlaceOrder(context.Background())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if order.ID == 0 || order.TotalPrice != models.Soum(25000) || order.PaymentMethod != models.PaymentCard || len(order.Items) != 2 {
		t.Errorf("order = %+v", order)
	}
	if !(len(s.CartLines()) == 0 && s.TotalPrice() == 0) {
		t.Error("cart not cleared after success")
	}
	if s.CheckoutOpen() {
		t.Error("checkout still open after success")
	}
	if got := toasts.last(); got.Title != "Buyurtma qabul qilindi" || got.Destructive {
		t.Errorf("success notice = %+v", got)
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 1 {
		t.Errorf("orders in store = %d", count)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	toasts := &recorder{}
	s := New(client, NewMenuService(client), toasts, lang.Ru)
	s.OpenCheckout()

	if _, err := s.PlaceOrder(context.Background()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if requests != 0 {
		t.Errorf("empty cart sent %d requests", requests)
	}
	if !s.CheckoutOpen() {
		t.Error("checkout state changed")
	}
	if got := toasts.last(); got.Description != "Корзина пуста" || !got.Destructive {
		t.Errorf("notice = %+v", got)
	}
}

// flakyOrders fails the first n order submissions and records every idempotency key.
type flakyOrders struct {
	mu       sync.Mutex
	failures int
	keys     []string
}

func (f *flakyOrders) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	io.Copy(io.Discard, r.Body)
	f.keys = append(f.keys, r.Header.Get("Idempotency-Key"))
	w.Header().Set("Content-Type", "application/json")
	if f.failures > 0 {
		f.failures--
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Failed to save order","error":"database is locked"}`))
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"id":5,"totalPrice":17000,"paymentMethod":"cash","status":"pending","items":[]}`))
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	api := &flakyOrders{failures: 1}
	srv := httptest.NewServer(api)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	toasts := &recorder{}
	s := New(client, NewMenuService(client), toasts, lang.Uz)
	menu := models.DefaultMenu()
	s.AddToCart(menu[0])
	s.AddToCart(menu[1])
	before := s.CartLines()
	s.OpenCheckout()

	_, err := s.PlaceOrder(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "Failed to save order" {
		t.Fatalf("err = %v", err)
	}
	if s.TotalPrice() != models.Soum(25000) || len(s.CartLines()) != len(before) || !s.CheckoutOpen() {
		t.Error("failed order changed the cart or closed checkout")
	}
	if got := toasts.last(); got.Description != "Buyurtma berishda xatolik yuz berdi" || !got.Destructive {
		t.Errorf("failure notice = %+v", got)
	}

	if _, err := s.PlaceOrder(context.Background()); err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if len(api.keys) != 2 || api.keys[0] == "" || api.keys[0] != api.keys[1] {
		t.Errorf("resubmitted cart used keys %q", api.keys)
	}

	s.AddToCart(menu[2])
	s.PlaceOrder(context.Background())
	if len(api.keys) != 3 || api.keys[2] == api.keys[0] {
		t.Errorf("new cart reused key: %q", api.keys)
	}
}

func TestPlaceOrderKeyChangesWithCart(t *testing.T) {
	api := &flakyOrders{failures: 2}
	srv := httptest.NewServer(api)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	s := New(client, NewMenuService(client), nil, lang.Uz)
	menu := models.DefaultMenu()
	s.AddToCart(menu[0])
	s.PlaceOrder(context.Background())

	s.RemoveFromCart(menu[0].ID)
	s.AddToCart(menu[0])
	s.PlaceOrder(context.Background())

	if len(api.keys) != 2 || api.keys[0] == api.keys[1] {
		t.Errorf("edited cart reused key: %q", api.keys)
	}
}

func TestPlaceOrderTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL, 200*time.Millisecond)
	toasts := &recorder{}
	s := New(client, NewMenuService(client), toasts, lang.Uz)
	s.AddToCart(models.DefaultMenu()[3])

	if _, err := s.PlaceOrder(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
	if s.CartCount() != 1 || !toasts.last().Destructive {
		t.Errorf("count = %d, notice = %+v", s.CartCount(), toasts.last())
	}
}
