package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dendyfood/dendyfood-api/controllers"
	"github.com/dendyfood/dendyfood-api/initializers"
	"github.com/dendyfood/dendyfood-api/models"
	"github.com/dendyfood/dendyfood-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	testAdmin    = "admin"
	testPassword = "secret123"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *initializers.Config
}

func setupTestServer(t *testing.T, configure ...func(*initializers.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := initializers.OpenDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := initializers.SyncDatabase(db); err != nil {
		t.Fatal(err)
	}
	if err := initializers.BootstrapAdmin(db, testAdmin, testPassword); err != nil {
		t.Fatal(err)
	}

	cfg := initializers.DefaultConfig()
	cfg.JWTSecret = "test-secret"
	cfg.LoginRatePerMinute = 1000
	cfg.UploadDir = t.TempDir()
	for _, fn := range configure {
		fn(cfg)
	}

	initializers.DB = db
	initializers.Cfg = cfg
	controllers.MenuSnapshots = &utils.MemorySnapshotStore{}
	controllers.Notifier = utils.Notifiers{}
	controllers.Images = utils.LocalImageStore{Dir: cfg.UploadDir}

	return &testServer{router: SetupRouter(cfg), db: db, cfg: cfg}
}

func (s *testServer) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/admin/login", "", gin.H{"username": testAdmin, "password": testPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

func (s *testServer) seedItems(t *testing.T, items ...models.FoodItem) []models.FoodItem {
	t.Helper()
	for i := range items {
		if err := s.db.Create(&items[i]).Error; err != nil {
			t.Fatal(err)
		}
	}
	return items
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func food(nameUz string, price int64, category models.Category) models.FoodItem {
	return models.FoodItem{NameUz: nameUz, NameRu: nameUz + " ru", Price: models.Soum(price), Category: category, Available: true}
}

func TestHomeAndHealth(t *testing.T) {
	s := setupTestServer(t)

	if w := s.do(http.MethodGet, "/", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/food-items") {
		t.Errorf("GET / = %d %s", w.Code, w.Body.String())
	}
	if w := s.do(http.MethodGet, "/health", "", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("GET /health = %d %s", w.Code, w.Body.String())
	}
}

func TestFoodItemCRUD(t *testing.T) {
	s := setupTestServer(t)
	token := s.login(t)

	body := gin.H{"nameUz": "Hot-Dog", "nameRu": "Хот-Дог", "price": "7000.50", "category": "hotdog"}
	if w := s.do(http.MethodPost, "/api/food-items", "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("create without token = %d, want 401", w.Code)
	}

	w := s.do(http.MethodPost, "/api/food-items", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	var created models.FoodItem
	decode(t, w, &created)
	if created.ID == 0 || created.Price != 700050 || !created.Available {
		t.Errorf("created = %+v", created)
	}

	hidden := gin.H{"nameUz": "Ice-Tea", "nameRu": "Айс-Ти", "price": 5000, "category": "drinks", "available": false}
	w = s.do(http.MethodPost, "/api/food-items", token, hidden)
	if w.Code != http.StatusCreated {
		t.Fatalf("create hidden = %d: %s", w.Code, w.Body.String())
	}
	var second models.FoodItem
	decode(t, w, &second)

	var list []models.FoodItem
	decode(t, s.do(http.MethodGet, "/api/food-items", "", nil), &list)
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != created.ID {
		t.Fatalf("list not newest first: %+v", list)
	}
	if list[0].Available {
		t.Error("available=false was not stored")
	}

	update := gin.H{"nameUz": "Hot-Dog (big)", "nameRu": "Хот-Дог (большой)", "price": 10000, "category": "hotdog", "imageUrl": "/uploads/a.jpg"}
	w = s.do(http.MethodPut, "/api/food-items/"+itoa(created.ID), token, update)
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", w.Code, w.Body.String())
	}
	var updated models.FoodItem
	decode(t, w, &updated)
	if updated.NameUz != "Hot-Dog (big)" || updated.Price != models.Soum(10000) || updated.ImageURL == nil || !updated.Available {
		t.Errorf("updated = %+v", updated)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"update unknown id", http.MethodPut, "/api/food-items/9999", update, http.StatusNotFound},
		{"update bad id", http.MethodPut, "/api/food-items/abc", update, http.StatusBadRequest},
		{"invalid category", http.MethodPost, "/api/food-items", gin.H{"nameUz": "x", "nameRu": "x", "price": 1, "category": "pizza"}, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/api/food-items", gin.H{"nameRu": "x", "price": 1, "category": "drinks"}, http.StatusBadRequest},
		{"missing price", http.MethodPost, "/api/food-items", gin.H{"nameUz": "x", "nameRu": "x", "category": "drinks"}, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/api/food-items", gin.H{"nameUz": "x", "nameRu": "x", "price": -5, "category": "drinks"}, http.StatusBadRequest},
		{"too precise price", http.MethodPost, "/api/food-items", gin.H{"nameUz": "x", "nameRu": "x", "price": "1.234", "category": "drinks"}, http.StatusBadRequest},
		{"delete unknown id", http.MethodDelete, "/api/food-items/9999", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		if w := s.do(tt.method, tt.path, token, tt.body); w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d: %s", tt.name, w.Code, tt.want, w.Body.String())
		}
	}

	w = s.do(http.MethodDelete, "/api/food-items/"+itoa(created.ID), token, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("delete = %d: %s", w.Code, w.Body.String())
	}
	if w := s.do(http.MethodDelete, "/api/food-items/"+itoa(created.ID), token, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}

	decode(t, s.do(http.MethodGet, "/api/food-items", "", nil), &list)
	if len(list) != 1 || list[0].ID != second.ID {
		t.Errorf("list after delete = %+v", list)
	}
}

func orderBody(total int64, method string, lines ...gin.H) gin.H {
	return gin.H{"totalPrice": total, "paymentMethod": method, "items": lines}
}

func line(id uint, qty int, price int64) gin.H {
	return gin.H{"foodItemId": id, "quantity": qty, "price": price}
}

func TestCreateOrder(t *testing.T) {
	s := setupTestServer(t)
	items := s.seedItems(t, food("Gamburger", 10000, models.CategoryBurger), food("Coca Cola 0.5", 5000, models.CategoryDrinks))

	notified := make(chan models.Order, 1)
	controllers.Notifier = notifierFunc(func(_ context.Context, o models.Order) error {
		notified <- o
		return nil
	})

	w := s.do(http.MethodPost, "/api/orders", "", orderBody(25000, "cash", line(items[0].ID, 2, 10000), line(items[1].ID, 1, 5000)))
	if w.Code != http.StatusCreated {
		t.Fatalf("create order = %d: %s", w.Code, w.Body.String())
	}
	var order models.Order
	decode(t, w, &order)

	if order.ID == 0 || order.TotalPrice != models.Soum(25000) || order.Status != models.OrderStatusPending {
		t.Errorf("order = %+v", order)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %+v", order.Items)
	}
	if order.Items[0].FoodItem.NameUz != "Gamburger" || order.Items[0].Names.Data().Ru != "Gamburger ru" {
		t.Errorf("first line = %+v", order.Items[0])
	}
	if order.LinesTotal() != order.TotalPrice {
		t.Errorf("lines total %s != %s", order.LinesTotal(), order.TotalPrice)
	}

	select {
	case got := <-notified:
		if got.ID != order.ID || len(got.Items) != 2 {
			t.Errorf("notified order = %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Error("notifier was not called")
	}
}

type notifierFunc func(context.Context, models.Order) error

func (f notifierFunc) NotifyOrder(ctx context.Context, o models.Order) error { return f(ctx, o) }

func countOrders(t *testing.T, db *gorm.DB) (orders, lines int64) {
	t.Helper()
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&lines)
	return orders, lines
}

func TestCreateOrderValidation(t *testing.T) {
	s := setupTestServer(t)
	items := s.seedItems(t, food("Strips", 12000, models.CategorySides))
	id := items[0].ID

	tests := []struct {
		name string
		body any
	}{
		{"empty items", orderBody(0, "cash")},
		{"zero quantity", orderBody(0, "cash", line(id, 0, 12000))},
		{"negative quantity", orderBody(-12000, "cash", line(id, -1, 12000))},
		{"unknown payment method", orderBody(12000, "crypto", line(id, 1, 12000))},
		{"total mismatch", orderBody(10000, "card", line(id, 1, 12000))},
		{"unknown food item", orderBody(24000, "card", line(id, 1, 12000), line(9999, 1, 12000))},
		{"malformed json", "{"},
		{"quantity above limit", orderBody(12012000, "cash", line(id, 1001, 12000))},
		{"line total out of range", orderBody(0, "cash", line(id, 1000, 10_000_000_000_000))},
		{"order total out of range", orderBody(20_000_000_000_000, "cash", line(id, 1, 10_000_000_000_000), line(id, 1, 10_000_000_000_000))},
		{"price wrapping int64", gin.H{
			"totalPrice":    "92233720368547758.08",
			"paymentMethod": "cash",
			"items":         []gin.H{{"foodItemId": id, "quantity": 1, "price": "92233720368547758.08"}},
		}},
	}
	for _, tt := range tests {
		if w := s.do(http.MethodPost, "/api/orders", "", tt.body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400: %s", tt.name, w.Code, w.Body.String())
		}
	}

	if orders, lines := countOrders(t, s.db); orders != 0 || lines != 0 {
		t.Errorf("rejected orders left %d orders and %d lines", orders, lines)
	}
}

func TestCreateOrderIdempotency(t *testing.T) {
	s := setupTestServer(t)
	items := s.seedItems(t, food("Naggets 4", 8000, models.CategorySides))
	body := orderBody(16000, "card", line(items[0].ID, 2, 8000))

	first := s.do(http.MethodPost, "/api/orders", "", body, controllers.IdempotencyHeader, "key-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("first = %d: %s", first.Code, first.Body.String())
	}
	second := s.do(http.MethodPost, "/api/orders", "", body, controllers.IdempotencyHeader, "key-1")
	if second.Code != http.StatusOK {
		t.Fatalf("replay = %d: %s", second.Code, second.Body.String())
	}

	var a, b models.Order
	decode(t, first, &a)
	decode(t, second, &b)
	if a.ID != b.ID || len(b.Items) != 1 {
		t.Errorf("replay returned %+v, want order %d", b, a.ID)
	}

	third := s.do(http.MethodPost, "/api/orders", "", body, controllers.IdempotencyHeader, "key-2")
	if third.Code != http.StatusCreated {
		t.Fatalf("new key = %d", third.Code)
	}
	if orders, lines := countOrders(t, s.db); orders != 2 || lines != 2 {
		t.Errorf("got %d orders and %d lines, want 2 and 2", orders, lines)
	}

	long := strings.Repeat("k", 65)
	if w := s.do(http.MethodPost, "/api/orders", "", body, controllers.IdempotencyHeader, long); w.Code != http.StatusBadRequest {
		t.Errorf("long key = %d, want 400", w.Code)
	}
}

func TestGetOrders(t *testing.T) {
	s := setupTestServer(t)
	items := s.seedItems(t, food("Hot-Dog", 7000, models.CategoryHotdog), food("Ice-Tea", 5000, models.CategoryDrinks))

	s.do(http.MethodPost, "/api/orders", "", orderBody(7000, "cash", line(items[0].ID, 1, 7000)))
	s.do(http.MethodPost, "/api/orders", "", orderBody(10000, "card", line(items[1].ID, 2, 5000)))

	if w := s.do(http.MethodGet, "/api/orders", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("list without token = %d, want 401", w.Code)
	}

	token := s.login(t)
	// order lines keep resolving items removed from the menu
	if w := s.do(http.MethodDelete, "/api/food-items/"+itoa(items[0].ID), token, nil); w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}

	var orders []models.Order
	decode(t, s.do(http.MethodGet, "/api/orders", token, nil), &orders)
	if len(orders) != 2 {
		t.Fatalf("got %d orders", len(orders))
	}
	if orders[0].PaymentMethod != models.PaymentCard || orders[1].PaymentMethod != models.PaymentCash {
		t.Errorf("orders not newest first: %+v", orders)
	}
	if orders[1].Items[0].FoodItem.NameUz != "Hot-Dog" {
		t.Errorf("deleted food item not resolved: %+v", orders[1].Items[0])
	}

	w := s.do(http.MethodGet, "/api/orders?limit=1&page=2", token, nil)
	decode(t, w, &orders)
	if len(orders) != 1 || orders[0].PaymentMethod != models.PaymentCash || w.Header().Get("X-Total-Count") != "2" {
		t.Errorf("page 2 = %+v, total %q", orders, w.Header().Get("X-Total-Count"))
	}
	if w := s.do(http.MethodGet, "/api/orders?limit=abc", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d", w.Code)
	}
}

func TestAdminLogin(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodPost, "/api/admin/login", "", gin.H{"username": testAdmin, "password": testPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success   bool      `json:"success"`
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	decode(t, w, &resp)
	if !resp.Success || resp.Token == "" {
		t.Errorf("response = %+v", resp)
	}
	if d := time.Until(resp.ExpiresAt); d < 11*time.Hour || d > 13*time.Hour {
		t.Errorf("token expires in %v, want about 12h", d)
	}

	tests := []struct {
		name string
		body any
		want int
	}{
		{"wrong password", gin.H{"username": testAdmin, "password": "nope"}, http.StatusUnauthorized},
		{"unknown user", gin.H{"username": "intruder", "password": "whatever"}, http.StatusUnauthorized},
		{"missing password", gin.H{"username": testAdmin}, http.StatusBadRequest},
		{"empty body", "{}", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := s.do(http.MethodPost, "/api/admin/login", "", tt.body)
		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.want)
		}
		if tt.want == http.StatusUnauthorized && strings.Contains(w.Body.String(), "token") {
			t.Errorf("%s: failed login returned a token", tt.name)
		}
	}

	var admins int64
	s.db.Model(&models.AdminUser{}).Count(&admins)
	if admins != 1 {
		t.Errorf("login attempts changed the admin table: %d accounts", admins)
	}
}

func TestAdminLoginRateLimited(t *testing.T) {
	s := setupTestServer(t, func(cfg *initializers.Config) { cfg.LoginRatePerMinute = 2 })

	bad := gin.H{"username": testAdmin, "password": "nope"}
	for i := 0; i < 2; i++ {
		if w := s.do(http.MethodPost, "/api/admin/login", "", bad); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d", i+1, w.Code)
		}
	}
	if w := s.do(http.MethodPost, "/api/admin/login", "", gin.H{"username": testAdmin, "password": testPassword}); w.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt = %d, want 429", w.Code)
	}
}

func multipartImage(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "photo.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	s := setupTestServer(t)
	token := s.login(t)

	upload := func(token, field string, content []byte) *httptest.ResponseRecorder {
		body, contentType := multipartImage(t, field, content)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	if w := upload("", "image", pngBytes(t, 10, 10)); w.Code != http.StatusUnauthorized {
		t.Errorf("upload without token = %d", w.Code)
	}
	if w := upload(token, "image", []byte("not an image")); w.Code != http.StatusBadRequest {
		t.Errorf("upload garbage = %d", w.Code)
	}
	if w := upload(token, "file", pngBytes(t, 10, 10)); w.Code != http.StatusBadRequest {
		t.Errorf("upload wrong field = %d", w.Code)
	}

	w := upload(token, "image", pngBytes(t, 2000, 500))
	if w.Code != http.StatusOK {
		t.Fatalf("upload = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	decode(t, w, &resp)
	if !strings.HasPrefix(resp.URL, "/uploads/") || !strings.HasSuffix(resp.URL, ".jpg") {
		t.Fatalf("url = %q", resp.URL)
	}
	if _, err := os.Stat(filepath.Join(s.cfg.UploadDir, filepath.Base(resp.URL))); err != nil {
		t.Errorf("uploaded file missing: %v", err)
	}

	served := s.do(http.MethodGet, resp.URL, "", nil)
	if served.Code != http.StatusOK {
		t.Fatalf("GET %s = %d", resp.URL, served.Code)
	}
	img, _, err := image.DecodeConfig(served.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != s.cfg.ImageMaxWidth {
		t.Errorf("stored width = %d, want %d", img.Width, s.cfg.ImageMaxWidth)
	}
}

func TestMenuSnapshotFallback(t *testing.T) {
	s := setupTestServer(t)
	s.seedItems(t, food("Moxito Classic", 9000, models.CategoryDrinks))

	w := s.do(http.MethodGet, "/api/food-items", "", nil)
	if w.Code != http.StatusOK || w.Header().Get(controllers.SnapshotHeader) != "" {
		t.Fatalf("live read = %d, header %q", w.Code, w.Header().Get(controllers.SnapshotHeader))
	}

	sqlDB, _ := s.db.DB()
	sqlDB.Close()

	w = s.do(http.MethodGet, "/api/food-items", "", nil)
	if w.Code != http.StatusOK || w.Header().Get(controllers.SnapshotHeader) != "cached" {
		t.Fatalf("fallback read = %d, header %q", w.Code, w.Header().Get(controllers.SnapshotHeader))
	}
	var items []models.FoodItem
	decode(t, w, &items)
	if len(items) != 1 || items[0].NameUz != "Moxito Classic" {
		t.Errorf("snapshot = %+v", items)
	}

	controllers.MenuSnapshots = &utils.MemorySnapshotStore{}
	if w := s.do(http.MethodGet, "/api/food-items", "", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("read without snapshot = %d, want 500", w.Code)
	}
}

func TestCORSConfig(t *testing.T) {
	cfg := corsConfig([]string{"https://dendyfood.uz"})
	if cfg.AllowAllOrigins || !cfg.AllowCredentials {
		t.Errorf("explicit origins: %+v", cfg)
	}
	for _, origins := range [][]string{nil, {"*"}} {
		cfg := corsConfig(origins)
		if !cfg.AllowAllOrigins || cfg.AllowCredentials || cfg.AllowOrigins != nil {
			t.Errorf("origins %v: %+v", origins, cfg)
		}
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
