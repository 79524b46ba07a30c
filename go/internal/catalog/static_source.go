package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/mcdev12/storefront/go/internal/models"
	"gopkg.in/yaml.v3"
)

// staticCatalog is the on-disk layout of a static catalog file
type staticCatalog struct {
	Products []struct {
		ID          int     `yaml:"id"`
		Title       string  `yaml:"title"`
		Price       float64 `yaml:"price"`
		Description string  `yaml:"description"`
		Category    string  `yaml:"category"`
		Image       string  `yaml:"image"`
	} `yaml:"products"`
	Users []struct {
		ID        int    `yaml:"id"`
		Username  string `yaml:"username"`
		Email     string `yaml:"email"`
		FirstName string `yaml:"firstname"`
		LastName  string `yaml:"lastname"`
	} `yaml:"users"`
}

// StaticSource serves a catalog read once from a YAML file
type StaticSource struct {
	products []models.Product
	users    []models.User
}

// LoadStaticSource reads a YAML catalog file
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseStaticSource(data)
}

// ParseStaticSource parses YAML catalog data
func ParseStaticSource(data []byte) (*StaticSource, error) {
	var raw staticCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	src := &StaticSource{
		products: make([]models.Product, 0, len(raw.Products)),
		users:    make([]models.User, 0, len(raw.Users)),
	}
	for _, p := range raw.Products {
		src.products = append(src.products, models.Product{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Description: p.Description,
			Category:    p.Category,
			Image:       p.Image,
		})
	}
	for _, u := range raw.Users {
		src.users = append(src.users, models.User{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Name:     models.Name{FirstName: u.FirstName, LastName: u.LastName},
		})
	}
	return src, nil
}

func (s *StaticSource) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.products, nil
}

func (s *StaticSource) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.users, nil
}
