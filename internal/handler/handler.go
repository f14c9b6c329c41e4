// Package handler содержит HTTP-обработчики API сервиса фудкарт.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/foodcart-system/internal/model"
	"github.com/mmeshcher/foodcart-system/internal/repository"
	"github.com/mmeshcher/foodcart-system/internal/service"
	"github.com/mmeshcher/foodcart-system/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	RegisterOrder(ctx context.Context, order model.Order, items []model.OrderItem) (int64, error)
	ListOrders(ctx context.Context) ([]service.OrderWithItems, error)
	RankRestaurantsForOrder(ctx context.Context, orderID int64) ([]model.RankedRestaurant, error)
}

// Handler реализует HTTP-обработчики API сервиса фудкарт.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

type bannerResponse struct {
	Title string `json:"title"`
	Src   string `json:"src"`
	Text  string `json:"text"`
}

// Banners возвращает баннеры главной страницы.
// TODO: перенести баннеры в БД, когда появится админка для их редактирования.
func (h *Handler) Banners(w http.ResponseWriter, r *http.Request) {
	banners := []bannerResponse{
		{Title: "Burger", Src: "/static/burger.jpg", Text: "Tasty Burger at your door step"},
		{Title: "Spices", Src: "/static/food.jpg", Text: "All Cuisines"},
		{Title: "New York", Src: "/static/tasty.jpg", Text: "Food is incomplete without a tasty dessert"},
	}

	writeJSON(w, h.logger, banners)
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Price         float64           `json:"price"`
	SpecialStatus bool              `json:"special_status"`
	Description   string            `json:"description"`
	Category      *categoryResponse `json:"category"`
}

// ListProducts возвращает товары, доступные хотя бы в одном ресторане.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("list products error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		pr := productResponse{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			SpecialStatus: p.SpecialStatus,
			Description:   p.Description,
		}
		if p.Category != nil {
			pr.Category = &categoryResponse{ID: p.Category.ID, Name: p.Category.Name}
		}
		resp = append(resp, pr)
	}

	writeJSON(w, h.logger, resp)
}

type orderItemRequest struct {
	Product  int64 `json:"product"`
	Quantity int   `json:"quantity"`
}

type orderRequest struct {
	Firstname   string             `json:"firstname"`
	Lastname    string             `json:"lastname"`
	Phonenumber string             `json:"phonenumber"`
	Address     string             `json:"address"`
	Products    []orderItemRequest `json:"products"`
}

type orderItemResponse struct {
	Product    int64   `json:"product"`
	Quantity   int     `json:"quantity"`
	FixedPrice float64 `json:"fixed_price"`
}

type orderResponse struct {
	ID            int64               `json:"id"`
	Firstname     string              `json:"firstname"`
	Lastname      string              `json:"lastname"`
	Phonenumber   string              `json:"phonenumber"`
	Address       string              `json:"address"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Comment       string              `json:"comment,omitempty"`
	RegisteredAt  string              `json:"registered_at"`
	Products      []orderItemResponse `json:"products"`
}

// RegisterOrder принимает новый заказ покупателя.
func (h *Handler) RegisterOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if msg, ok := validateOrderRequest(req); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	items := make([]model.OrderItem, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, model.OrderItem{ProductID: p.Product, Quantity: p.Quantity})
	}

	order := model.Order{
		Firstname:   strings.TrimSpace(req.Firstname),
		Lastname:    strings.TrimSpace(req.Lastname),
		Phonenumber: req.Phonenumber,
		Address:     strings.TrimSpace(req.Address),
	}

	id, err := h.service.RegisterOrder(r.Context(), order, items)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("register order error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	type registeredResponse struct {
		ID int64 `json:"id"`
		orderRequest
	}

	writeJSON(w, h.logger, registeredResponse{ID: id, orderRequest: req})
}

func validateOrderRequest(req orderRequest) (string, bool) {
	if len(req.Products) == 0 {
		return "products: обязательное непустое поле", false
	}
	for _, p := range req.Products {
		if p.Product <= 0 {
			return "products: некорректный идентификатор товара", false
		}
		if p.Quantity < 1 {
			return "products: количество должно быть положительным", false
		}
	}
	if strings.TrimSpace(req.Firstname) == "" {
		return "firstname: обязательное поле", false
	}
	if strings.TrimSpace(req.Address) == "" {
		return "address: обязательное поле", false
	}
	if !validation.IsValidPhoneNumber(req.Phonenumber) {
		return "phonenumber: некорректный номер телефона", false
	}
	return "", true
}

// ListOrders возвращает все заказы с позициями.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("list orders error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		or := orderResponse{
			ID:            o.Order.ID,
			Firstname:     o.Order.Firstname,
			Lastname:      o.Order.Lastname,
			Phonenumber:   o.Order.Phonenumber,
			Address:       o.Order.Address,
			Status:        string(o.Order.Status),
			PaymentMethod: string(o.Order.PaymentMethod),
			Comment:       o.Order.Comment,
			RegisteredAt:  o.Order.RegisteredAt.Format(time.RFC3339),
			Products:      make([]orderItemResponse, 0, len(o.Items)),
		}
		for _, item := range o.Items {
			or.Products = append(or.Products, orderItemResponse{
				Product:    item.ProductID,
				Quantity:   item.Quantity,
				FixedPrice: item.FixedPrice,
			})
		}
		resp = append(resp, or)
	}

	writeJSON(w, h.logger, resp)
}

type rankedRestaurantResponse struct {
	Restaurant model.Restaurant `json:"restaurant"`
	DistanceKm *float64         `json:"distance_km"`
}

// AvailableRestaurants возвращает рестораны, способные приготовить заказ,
// отсортированные по расстоянию до адреса доставки. Неизвестное расстояние
// передаётся как null.
func (h *Handler) AvailableRestaurants(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ranked, err := h.service.RankRestaurantsForOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("rank restaurants error", zap.Error(err), zap.Int64("orderID", orderID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]rankedRestaurantResponse, 0, len(ranked))
	for _, rr := range ranked {
		resp = append(resp, rankedRestaurantResponse{
			Restaurant: rr.Restaurant,
			DistanceKm: rr.Distance,
		})
	}

	writeJSON(w, h.logger, resp)
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response error", zap.Error(err))
	}
}
