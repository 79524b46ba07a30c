package storefront

import (
	"time"

	"github.com/mcdev12/storefront/go/internal/flashsale"
	"github.com/mcdev12/storefront/go/internal/models"
)

// FlashSaleView is the showcase block of the home screen
type FlashSaleView struct {
	Items          []models.Product `json:"items"`
	Countdown      string           `json:"countdown"`
	Window         string           `json:"window"`
	NextRotationAt time.Time        `json:"next_rotation_at"`
}

// HomeView is everything the home screen renders
type HomeView struct {
	Greeting        string           `json:"greeting"`
	Username        string           `json:"username,omitempty"`
	Categories      []Category       `json:"categories"`
	FlashSale       *FlashSaleView   `json:"flash_sale,omitempty"`
	Products        []models.Product `json:"products"`
	CatalogLoadedAt *time.Time       `json:"catalog_loaded_at,omitempty"`
}

// Home assembles the home view. The greeting addresses the first user;
// the flash sale block is omitted until the scheduler has produced output.
func Home(now time.Time, users []models.User, products []models.Product, category string, flash *flashsale.Update) HomeView {
	view := HomeView{
		Greeting:   Greeting(now.Hour()),
		Categories: Categories(products),
		Products:   FilterByCategory(products, category),
	}
	if len(users) > 0 {
		view.Username = users[0].Username
	}
	if flash != nil {
		view.FlashSale = &FlashSaleView{
			Items:          flash.Selection,
			Countdown:      flash.Countdown,
			Window:         flash.Window.String(),
			NextRotationAt: flash.NextRotationAt,
		}
	}
	return view
}
