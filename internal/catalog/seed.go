package catalog

// PlaceholderImage replaces a cover that fails to load.
const PlaceholderImage = "https://images.unsplash.com/photo-1543002588-bfa74002ed7e"

// SeedBooks returns a fresh copy of the built-in starting collection.
func SeedBooks() []Book {
	return []Book{
		{
			ID:          1,
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			Price:       19.99,
			Genre:       GenreClassic,
			ISBN:        "978-0743273565",
			Year:        1925,
			Description: "A story of decadence and excess.",
			Image:       "https://images.unsplash.com/photo-1544947950-fa07a98d237f",
		},
		{
			ID:          2,
			Title:       "To Kill a Mockingbird",
			Author:      "Harper Lee",
			Price:       24.99,
			Genre:       GenreFiction,
			ISBN:        "978-0446310789",
			Year:        1960,
			Description: "A classic of modern American literature.",
			Image:       "https://images.unsplash.com/photo-1543002588-bfa74002ed7e",
		},
	}
}
