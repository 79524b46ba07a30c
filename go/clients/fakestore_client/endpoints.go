package fakestore_client

const (
	// Base URL
	BaseURL = "https://fakestoreapi.com"

	// API Endpoints
	ProductsEndpoint   = "/products"
	CategoriesEndpoint = "/products/categories"
	CategoryEndpoint   = "/products/category"
	UsersEndpoint      = "/users"
)
