package clients

// ExternalSource represents the providers the catalog can be loaded from
type ExternalSource string

const (
	// ExternalSourceFakeStore represents the public Fake Store REST API
	ExternalSourceFakeStore ExternalSource = "fakestore"

	// ExternalSourceStatic represents a catalog read from a local YAML file
	ExternalSourceStatic ExternalSource = "static"
)

// ExternalSourceConfig holds configuration for external sources
type ExternalSourceConfig struct {
	Source      ExternalSource `json:"source"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
}

// GetExternalSources returns all supported external sources
func GetExternalSources() map[ExternalSource]ExternalSourceConfig {
	return map[ExternalSource]ExternalSourceConfig{
		ExternalSourceFakeStore: {
			Source:      ExternalSourceFakeStore,
			Name:        "Fake Store API",
			Description: "Public storefront REST API",
		},
		ExternalSourceStatic: {
			Source:      ExternalSourceStatic,
			Name:        "Static catalog",
			Description: "Products and users loaded from a YAML file",
		},
	}
}

// ValidateExternalSource checks if the source is valid
func ValidateExternalSource(source ExternalSource) bool {
	_, exists := GetExternalSources()[source]
	return exists
}
