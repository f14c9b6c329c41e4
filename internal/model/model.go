// Package model содержит доменные сущности сервиса фудкарт.
package model

import "time"

// Restaurant описывает ресторан сети.
type Restaurant struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
}

// ProductCategory описывает категорию товара.
type ProductCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product описывает товар каталога. Цена хранится в БД в копейках,
// в модели представлена в рублях.
type Product struct {
	ID            int64
	Name          string
	Price         float64
	Description   string
	SpecialStatus bool
	Category      *ProductCategory
}

// MenuItem описывает пункт меню: признак доступности товара в ресторане.
// Пара (ресторан, товар) уникальна.
type MenuItem struct {
	RestaurantID int64
	ProductID    int64
	Availability bool
}

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusUnprocessed OrderStatus = "unprocessed"
	OrderStatusProcessing  OrderStatus = "processing"
	OrderStatusInDelivery  OrderStatus = "in_delivery"
	OrderStatusCompleted   OrderStatus = "completed"
	OrderStatusCancelled   OrderStatus = "cancelled"
)

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// Order описывает заказ покупателя.
type Order struct {
	ID                  int64
	Firstname           string
	Lastname            string
	Phonenumber         string
	Address             string
	Status              OrderStatus
	PaymentMethod       PaymentMethod
	Comment             string
	CookingRestaurantID *int64
	RegisteredAt        time.Time
	CalledAt            *time.Time
	DeliveredAt         *time.Time
}

// OrderItem описывает позицию заказа. FixedPrice фиксируется из текущей цены
// товара в момент оформления и не пересчитывается при изменении каталога.
type OrderItem struct {
	ProductID  int64
	Quantity   int
	FixedPrice float64
}

// PlaceCoordinates описывает запись кэша координат: адресу соответствует
// не более одной пары координат.
type PlaceCoordinates struct {
	Address   string
	Lat       float64
	Lon       float64
	UpdatedAt time.Time
}

// RankedRestaurant описывает ресторан-кандидат с расстоянием до адреса
// доставки в километрах. Distance равен nil, если расстояние неизвестно.
type RankedRestaurant struct {
	Restaurant Restaurant
	Distance   *float64
}
