// Package service реализует бизнес-логику сервиса фудкарт.
package service

import (
	"context"
	"sort"

	"github.com/mmeshcher/foodcart-system/internal/geo"
	"github.com/mmeshcher/foodcart-system/internal/matching"
	"github.com/mmeshcher/foodcart-system/internal/model"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
	GetRestaurants(ctx context.Context, ids []int64) (map[int64]model.Restaurant, error)
	ListAvailableProducts(ctx context.Context) ([]model.Product, error)
	CreateOrder(ctx context.Context, order model.Order, items []model.OrderItem) (int64, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrderItems(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error)
	AvailabilityByProduct(ctx context.Context, productIDs []int64) (map[int64][]int64, error)
}

// Locator описывает контракт определения координат адреса. Возвращает nil,
// если координаты определить не удалось.
type Locator interface {
	Locate(ctx context.Context, address string) *geo.Coordinates
}

// Service содержит бизнес-логику сервиса фудкарт.
type Service struct {
	repo    Repository
	locator Locator
}

// NewService создаёт новый сервис с указанными репозиторием и локатором.
func NewService(repo Repository, locator Locator) *Service {
	return &Service{
		repo:    repo,
		locator: locator,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// ListProducts возвращает товары, доступные хотя бы в одном ресторане.
func (s *Service) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListAvailableProducts(ctx)
}

// RegisterOrder регистрирует новый заказ. Статус и способ оплаты по умолчанию
// проставляются здесь, фиксация цен позиций выполняется в хранилище.
func (s *Service) RegisterOrder(ctx context.Context, order model.Order, items []model.OrderItem) (int64, error) {
	if order.Status == "" {
		order.Status = model.OrderStatusUnprocessed
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = model.PaymentMethodCash
	}

	return s.repo.CreateOrder(ctx, order, items)
}

// OrderWithItems описывает заказ вместе с его позициями.
type OrderWithItems struct {
	Order model.Order
	Items []model.OrderItem
}

// ListOrders возвращает все заказы с позициями.
func (s *Service) ListOrders(ctx context.Context) ([]OrderWithItems, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	itemsByOrder, err := s.repo.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]OrderWithItems, 0, len(orders))
	for _, o := range orders {
		res = append(res, OrderWithItems{
			Order: o,
			Items: itemsByOrder[o.ID],
		})
	}

	return res, nil
}

// RankRestaurantsForOrder возвращает рестораны, способные приготовить заказ
// целиком, отсортированные по расстоянию до адреса доставки. Рестораны с
// неизвестным расстоянием идут после всех с известным. Пустой список означает,
// что ни один ресторан не покрывает состав заказа. Сбои геокодирования
// поглощаются и дают неизвестное расстояние, а не ошибку.
func (s *Service) RankRestaurantsForOrder(ctx context.Context, orderID int64) ([]model.RankedRestaurant, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	itemsByOrder, err := s.repo.ListOrderItems(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	items := itemsByOrder[orderID]

	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	availability, err := s.repo.AvailabilityByProduct(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	candidates := matching.AvailableRestaurants(items, availability)
	if len(candidates) == 0 {
		// Без кандидатов геокодирование не выполняется.
		return []model.RankedRestaurant{}, nil
	}

	ids := make([]int64, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	restaurants, err := s.repo.GetRestaurants(ctx, ids)
	if err != nil {
		return nil, err
	}

	deliveryCoords := s.locator.Locate(ctx, order.Address)

	ranked := make([]model.RankedRestaurant, 0, len(ids))
	for _, id := range ids {
		r, ok := restaurants[id]
		if !ok {
			continue
		}

		restaurantCoords := s.locator.Locate(ctx, r.Address)
		ranked = append(ranked, model.RankedRestaurant{
			Restaurant: r,
			Distance:   geo.Distance(deliveryCoords, restaurantCoords),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Distance, ranked[j].Distance
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	return ranked, nil
}
