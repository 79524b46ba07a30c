package storefront

import "github.com/mcdev12/storefront/go/internal/models"

// RecommendedLimit caps the recommendations shown under a product
const RecommendedLimit = 6

// ProductDetailView is the product screen: the product and its recommendations
type ProductDetailView struct {
	Product     *models.Product  `json:"product"`
	Recommended []models.Product `json:"recommended"`
}

// Recommended returns up to limit products sharing product's category,
// excluding product itself, in catalog order.
func Recommended(products []models.Product, product models.Product, limit int) []models.Product {
	out := []models.Product{}
	if limit <= 0 {
		return out
	}
	for _, p := range products {
		if p.Category != product.Category || p.ID == product.ID {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}
