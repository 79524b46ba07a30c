package storefront

import "github.com/mcdev12/storefront/go/internal/models"

// Category is a browsable category tile
type Category struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Count int    `json:"count"`
}

// Categories returns the distinct non-empty categories of products in
// first-seen order. Each tile uses the image of the first product seen in
// that category.
func Categories(products []models.Product) []Category {
	out := []Category{}
	index := make(map[string]int)

	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if i, ok := index[p.Category]; ok {
			out[i].Count++
			continue
		}
		index[p.Category] = len(out)
		out = append(out, Category{Name: p.Category, Image: p.Image, Count: 1})
	}
	return out
}

// FilterByCategory returns the products in category, or all products when
// category is empty.
func FilterByCategory(products []models.Product, category string) []models.Product {
	if category == "" {
		return products
	}
	out := []models.Product{}
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
