package matching

import (
	"testing"

	"github.com/mmeshcher/foodcart-system/internal/model"
)

func items(productIDs ...int64) []model.OrderItem {
	res := make([]model.OrderItem, 0, len(productIDs))
	for _, id := range productIDs {
		res = append(res, model.OrderItem{ProductID: id, Quantity: 1})
	}
	return res
}

func assertSet(t *testing.T, got map[int64]struct{}, want ...int64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("set size = %d, want %d (%v)", len(got), len(want), got)
	}
	for _, id := range want {
		if _, ok := got[id]; !ok {
			t.Fatalf("restaurant %d missing from %v", id, got)
		}
	}
}

func TestAvailableRestaurantsIntersection(t *testing.T) {
	availability := map[int64][]int64{
		1: {10, 20}, // товар A: рестораны X, Y
		2: {20, 30}, // товар B: рестораны Y, Z
	}

	order := []model.OrderItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	assertSet(t, AvailableRestaurants(order, availability), 20)
}

func TestAvailableRestaurantsOrderIndependent(t *testing.T) {
	availability := map[int64][]int64{
		1: {10, 20, 30},
		2: {20, 30},
		3: {30, 20, 10},
	}

	a := AvailableRestaurants(items(1, 2, 3), availability)
	b := AvailableRestaurants(items(3, 2, 1), availability)

	assertSet(t, a, 20, 30)
	assertSet(t, b, 20, 30)
}

func TestAvailableRestaurantsDuplicateProducts(t *testing.T) {
	availability := map[int64][]int64{
		1: {10, 20},
		2: {20},
	}

	assertSet(t, AvailableRestaurants(items(1, 1, 2, 1), availability), 20)
}

func TestAvailableRestaurantsUnknownProduct(t *testing.T) {
	availability := map[int64][]int64{
		1: {10, 20},
	}

	assertSet(t, AvailableRestaurants(items(1, 99), availability))
}

func TestAvailableRestaurantsEmptyOrder(t *testing.T) {
	availability := map[int64][]int64{
		1: {10},
	}

	assertSet(t, AvailableRestaurants(nil, availability))
	assertSet(t, AvailableRestaurants([]model.OrderItem{}, availability))
}

func TestAvailableRestaurantsDisjointSets(t *testing.T) {
	availability := map[int64][]int64{
		1: {10},
		2: {20},
	}

	assertSet(t, AvailableRestaurants(items(1, 2), availability))
}

func TestAvailableRestaurantsSingleProduct(t *testing.T) {
	availability := map[int64][]int64{
		7: {40, 50, 60},
	}

	assertSet(t, AvailableRestaurants(items(7), availability), 40, 50, 60)
}
