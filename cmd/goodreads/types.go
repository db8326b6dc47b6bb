package goodreads

// Row holds the columns of a Goodreads library export the catalog uses
type Row struct {
	BookID                  int      `json:"Book Id"`
	Title                   string   `json:"Title"`
	Authors                 []string `json:"Authors"`
	ISBN                    string   `json:"ISBN"`
	ISBN13                  string   `json:"ISBN13"`
	YearPublished           int      `json:"Year Published"`
	OriginalPublicationYear int      `json:"Original Publication Year"`
	Bookshelves             []string `json:"Bookshelves"`
	ExclusiveShelf          string   `json:"Exclusive Shelf"`
	MyReview                string   `json:"My Review"`
}

// Goodreads export column names
const (
	colBookID            = "Book Id"
	colTitle             = "Title"
	colAuthor            = "Author"
	colAdditionalAuthors = "Additional Authors"
	colISBN              = "ISBN"
	colISBN13            = "ISBN13"
	colYearPublished     = "Year Published"
	colOriginalYear      = "Original Publication Year"
	colBookshelves       = "Bookshelves"
	colExclusiveShelf    = "Exclusive Shelf"
	colMyReview          = "My Review"
)

// requiredColumns must appear in the header for a file to be a Goodreads export
var requiredColumns = []string{colBookID, colTitle, colAuthor}
