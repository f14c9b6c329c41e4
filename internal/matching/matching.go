// Package matching реализует подбор ресторанов, способных приготовить заказ.
package matching

import "github.com/mmeshcher/foodcart-system/internal/model"

// AvailableRestaurants возвращает множество идентификаторов ресторанов, в меню
// которых доступен каждый товар заказа. availability отображает товар на
// рестораны, где он сейчас в продаже. Пересечение считается свёрткой по
// уникальным товарам заказа и обрывается на первом пустом результате.
// Количество товара в позиции на подбор не влияет.
func AvailableRestaurants(items []model.OrderItem, availability map[int64][]int64) map[int64]struct{} {
	if len(items) == 0 {
		return map[int64]struct{}{}
	}

	var result map[int64]struct{}
	seen := make(map[int64]struct{}, len(items))

	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}

		candidates := availability[item.ProductID]
		set := make(map[int64]struct{}, len(candidates))
		for _, id := range candidates {
			set[id] = struct{}{}
		}

		if result == nil {
			result = set
		} else {
			for id := range result {
				if _, ok := set[id]; !ok {
					delete(result, id)
				}
			}
		}

		if len(result) == 0 {
			return map[int64]struct{}{}
		}
	}

	return result
}
