package models

// Name holds the split name fields returned by the catalog API
type Name struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// User represents a storefront shopper
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     Name   `json:"name"`
	Phone    string `json:"phone,omitempty"`
}
