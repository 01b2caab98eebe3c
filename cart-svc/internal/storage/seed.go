package storage

import "groupcart/cart-svc/internal/domain"

// DemoCatalog is the catalog used for local runs.
func DemoCatalog() []domain.SeedRestaurant {
	return []domain.SeedRestaurant{
		{
			Name:          "Mosu",
			Latitude:      37.5412,
			Longitude:     126.9962,
			MinOrderPrice: 500000,
			Menus: []domain.SeedMenu{
				{Name: "Charred Acorn Noodles", Price: 100000},
				{Name: "Small Bites", Price: 100000},
				{Name: "Burdock Tart", Price: 100000},
			},
		},
		{
			Name:          "Pepe's Pasta",
			Latitude:      36.36088,
			Longitude:     127.34971,
			MinOrderPrice: 25000,
			Menus: []domain.SeedMenu{
				{Name: "Rucola Salad", Price: 8000},
				{Name: "Caesar Salad", Price: 11000},
				{Name: "White Ragu", Price: 16000},
				{Name: "Striploin Steak", Price: 32000},
				{Name: "Ciabatta", Price: 3000},
				{Name: "Vongole", Price: 12000},
				{Name: "Carbonara", Price: 12000},
				{Name: "Cacio e Pepe", Price: 12000},
				{Name: "Cola", Price: 2000},
				{Name: "Red Wine", Price: 33000},
			},
		},
	}
}
