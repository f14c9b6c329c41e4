package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/mmeshcher/foodcart-system/internal/model"
	"github.com/mmeshcher/foodcart-system/internal/repository"
	"github.com/mmeshcher/foodcart-system/internal/service"
)

type stubService struct {
	products    []model.Product
	productsErr error

	registerID  int64
	registerErr error
	gotOrder    *model.Order
	gotItems    []model.OrderItem

	orders    []service.OrderWithItems
	ordersErr error

	ranked    []model.RankedRestaurant
	rankedErr error
}

func (s *stubService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.products, s.productsErr
}

func (s *stubService) RegisterOrder(ctx context.Context, order model.Order, items []model.OrderItem) (int64, error) {
	s.gotOrder = &order
	s.gotItems = items
	return s.registerID, s.registerErr
}

func (s *stubService) ListOrders(ctx context.Context) ([]service.OrderWithItems, error) {
	return s.orders, s.ordersErr
}

func (s *stubService) RankRestaurantsForOrder(ctx context.Context, orderID int64) ([]model.RankedRestaurant, error) {
	return s.ranked, s.rankedErr
}

func newTestServer(t *testing.T, svc Service) *httptest.Server {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	h := NewHandler(svc, logger)
	ts := httptest.NewServer(h.SetupRouter())
	t.Cleanup(ts.Close)

	return ts
}

func TestBanners(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	resp, err := http.Get(ts.URL + "/api/banners")
	if err != nil {
		t.Fatalf("get banners: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var banners []struct {
		Title string `json:"title"`
		Src   string `json:"src"`
		Text  string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&banners); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(banners) != 3 {
		t.Fatalf("banners = %d, want 3", len(banners))
	}
}

func TestListProducts(t *testing.T) {
	svc := &stubService{
		products: []model.Product{
			{ID: 1, Name: "Бургер", Price: 250.50, Category: &model.ProductCategory{ID: 2, Name: "Фастфуд"}},
			{ID: 2, Name: "Лимонад", Price: 99},
		},
	}
	ts := newTestServer(t, svc)

	resp, err := http.Get(ts.URL + "/api/products")
	if err != nil {
		t.Fatalf("get products: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var products []struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Category *struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"category"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d, want 2", len(products))
	}
	if products[0].Price != 250.50 {
		t.Fatalf("price = %v, want 250.50", products[0].Price)
	}
	if products[0].Category == nil || products[0].Category.Name != "Фастфуд" {
		t.Fatalf("unexpected category: %+v", products[0].Category)
	}
	if products[1].Category != nil {
		t.Fatalf("expected null category, got %+v", products[1].Category)
	}
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestRegisterOrder(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name: "valid order",
			body: `{"firstname":"Иван","lastname":"Петров","phonenumber":"+79161234567",
				"address":"Москва, Тверская 1","products":[{"product":1,"quantity":2}]}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "not json",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing products",
			body:       `{"firstname":"Иван","phonenumber":"+79161234567","address":"Москва"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty products",
			body:       `{"firstname":"Иван","phonenumber":"+79161234567","address":"Москва","products":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "zero quantity",
			body: `{"firstname":"Иван","phonenumber":"+79161234567","address":"Москва",
				"products":[{"product":1,"quantity":0}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "blank firstname",
			body: `{"firstname":"  ","phonenumber":"+79161234567","address":"Москва",
				"products":[{"product":1,"quantity":1}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "blank address",
			body: `{"firstname":"Иван","phonenumber":"+79161234567","address":"",
				"products":[{"product":1,"quantity":1}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid phone",
			body: `{"firstname":"Иван","phonenumber":"12345","address":"Москва",
				"products":[{"product":1,"quantity":1}]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{registerID: 5}
			ts := newTestServer(t, svc)

			resp := postJSON(t, ts.URL+"/api/orders", tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				var result struct {
					ID int64 `json:"id"`
				}
				if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if result.ID != 5 {
					t.Fatalf("id = %d, want 5", result.ID)
				}
				if svc.gotOrder == nil || svc.gotOrder.Firstname != "Иван" {
					t.Fatalf("unexpected order passed to service: %+v", svc.gotOrder)
				}
				if len(svc.gotItems) != 1 || svc.gotItems[0].Quantity != 2 {
					t.Fatalf("unexpected items: %+v", svc.gotItems)
				}
			}
		})
	}
}

func TestRegisterOrder_UnknownProduct(t *testing.T) {
	svc := &stubService{registerErr: repository.ErrProductNotFound}
	ts := newTestServer(t, svc)

	resp := postJSON(t, ts.URL+"/api/orders",
		`{"firstname":"Иван","phonenumber":"+79161234567","address":"Москва","products":[{"product":99,"quantity":1}]}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestAvailableRestaurants(t *testing.T) {
	near := 1.2
	far := 5.0
	svc := &stubService{
		ranked: []model.RankedRestaurant{
			{Restaurant: model.Restaurant{ID: 3, Name: "R3"}, Distance: &near},
			{Restaurant: model.Restaurant{ID: 1, Name: "R1"}, Distance: &far},
			{Restaurant: model.Restaurant{ID: 2, Name: "R2"}, Distance: nil},
		},
	}
	ts := newTestServer(t, svc)

	resp, err := http.Get(ts.URL + "/api/orders/1/restaurants")
	if err != nil {
		t.Fatalf("get restaurants: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var ranked []struct {
		Restaurant struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"restaurant"`
		DistanceKm *float64 `json:"distance_km"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ranked); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("restaurants = %d, want 3", len(ranked))
	}
	if ranked[0].Restaurant.ID != 3 || ranked[0].DistanceKm == nil || *ranked[0].DistanceKm != 1.2 {
		t.Fatalf("unexpected first entry: %+v", ranked[0])
	}
	if ranked[2].DistanceKm != nil {
		t.Fatalf("last distance = %v, want null", *ranked[2].DistanceKm)
	}
}

func TestAvailableRestaurants_OrderNotFound(t *testing.T) {
	svc := &stubService{rankedErr: repository.ErrOrderNotFound}
	ts := newTestServer(t, svc)

	resp, err := http.Get(ts.URL + "/api/orders/42/restaurants")
	if err != nil {
		t.Fatalf("get restaurants: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestAvailableRestaurants_BadOrderID(t *testing.T) {
	ts := newTestServer(t, &stubService{})

	resp, err := http.Get(ts.URL + "/api/orders/abc/restaurants")
	if err != nil {
		t.Fatalf("get restaurants: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestListOrders(t *testing.T) {
	svc := &stubService{
		orders: []service.OrderWithItems{
			{
				Order: model.Order{
					ID:          1,
					Firstname:   "Иван",
					Phonenumber: "+79161234567",
					Address:     "Москва",
					Status:      model.OrderStatusUnprocessed,
				},
				Items: []model.OrderItem{{ProductID: 2, Quantity: 3, FixedPrice: 150}},
			},
		},
	}
	ts := newTestServer(t, svc)

	resp, err := http.Get(ts.URL + "/api/orders")
	if err != nil {
		t.Fatalf("get orders: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var orders []struct {
		ID       int64  `json:"id"`
		Status   string `json:"status"`
		Products []struct {
			Product    int64   `json:"product"`
			Quantity   int     `json:"quantity"`
			FixedPrice float64 `json:"fixed_price"`
		} `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if orders[0].Status != "unprocessed" {
		t.Fatalf("status = %q, want unprocessed", orders[0].Status)
	}
	if len(orders[0].Products) != 1 || orders[0].Products[0].FixedPrice != 150 {
		t.Fatalf("unexpected products: %+v", orders[0].Products)
	}
}
