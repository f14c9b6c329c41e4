// Package locator реализует определение координат адресов с кэшированием.
package locator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/foodcart-system/internal/geo"
	"github.com/mmeshcher/foodcart-system/internal/model"
)

// cacheTTL — срок жизни записи кэша. Запись старше этого срока считается
// промахом и координаты запрашиваются у геокодера заново.
const cacheTTL = 30 * 24 * time.Hour

// CoordinateCache описывает контракт хранилища координат адресов.
// Get возвращает nil без ошибки при отсутствии записи.
type CoordinateCache interface {
	GetPlaceCoordinates(ctx context.Context, address string) (*model.PlaceCoordinates, error)
	UpsertPlaceCoordinates(ctx context.Context, address string, lat, lon float64) error
}

// Geocoder описывает контракт клиента геокодера.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (*geo.Coordinates, error)
}

// Locator определяет координаты адреса, используя кэш с ограниченным
// сроком жизни записей.
type Locator struct {
	cache    CoordinateCache
	geocoder Geocoder
	logger   *zap.Logger
	now      func() time.Time
}

// New создаёт Locator с указанными кэшем и геокодером.
func New(cache CoordinateCache, geocoder Geocoder, logger *zap.Logger) *Locator {
	return &Locator{
		cache:    cache,
		geocoder: geocoder,
		logger:   logger,
		now:      time.Now,
	}
}

// Locate возвращает координаты адреса или nil, если определить их не удалось.
// Свежая запись кэша возвращается без обращения к геокодеру. При промахе или
// истечении срока выполняется запрос к геокодеру; успешный результат
// сохраняется в кэш. При неудачном обновлении устаревшая запись кэша не
// используется как запасной вариант. Все сбои поглощаются и логируются.
func (l *Locator) Locate(ctx context.Context, address string) *geo.Coordinates {
	cached, err := l.cache.GetPlaceCoordinates(ctx, address)
	if err != nil {
		l.logger.Warn("coordinate cache lookup failed",
			zap.String("address", address), zap.Error(err))
	}
	if cached != nil && l.now().Sub(cached.UpdatedAt) <= cacheTTL {
		return &geo.Coordinates{Lat: cached.Lat, Lon: cached.Lon}
	}

	coords, err := l.geocoder.Resolve(ctx, address)
	if err != nil {
		l.logger.Warn("geocode failed",
			zap.String("address", address), zap.Error(err))
		return nil
	}
	if coords == nil {
		return nil
	}

	if err := l.cache.UpsertPlaceCoordinates(ctx, address, coords.Lat, coords.Lon); err != nil {
		l.logger.Warn("coordinate cache upsert failed",
			zap.String("address", address), zap.Error(err))
	}

	return coords
}
