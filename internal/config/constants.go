package config

const (
	// DefaultAPIURL is used when neither API_URL nor VITE_API_URL is set.
	DefaultAPIURL = "http://localhost:8080"

	// DefaultPlaceholderImage is shown in the gallery when a book has no image.
	DefaultPlaceholderImage = "https://via.placeholder.com/300x400?text=No+Cover"
)
