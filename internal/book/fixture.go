package book

// SampleBooks returns the dataset the bookstore is seeded with.
func SampleBooks() []Book {
	return []Book{
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction", PublishedYear: 1960, Price: 12.99, InStock: true},
		{Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Price: 10.99, InStock: true},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance", PublishedYear: 1813, Price: 7.99, InStock: true},
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", PublishedYear: 1925, Price: 9.99, InStock: true},
		{Title: "Brave New World", Author: "Aldous Huxley", Genre: "Dystopian", PublishedYear: 1932, Price: 11.50, InStock: false},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937, Price: 14.99, InStock: true},
		{Title: "The Catcher in the Rye", Author: "J.D. Salinger", Genre: "Fiction", PublishedYear: 1951, Price: 8.99, InStock: true},
		{Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1954, Price: 19.99, InStock: true},
		{Title: "Animal Farm", Author: "George Orwell", Genre: "Political Satire", PublishedYear: 1945, Price: 8.50, InStock: false},
		{Title: "The Alchemist", Author: "Paulo Coelho", Genre: "Fiction", PublishedYear: 1988, Price: 10.99, InStock: true},
		{Title: "Harry Potter and the Philosopher's Stone", Author: "J.K. Rowling", Genre: "Fantasy", PublishedYear: 1997, Price: 15.99, InStock: true},
		{Title: "Harry Potter and the Chamber of Secrets", Author: "J.K. Rowling", Genre: "Fantasy", PublishedYear: 1998, Price: 15.99, InStock: true},
		{Title: "Harry Potter and the Deathly Hallows", Author: "J.K. Rowling", Genre: "Fantasy", PublishedYear: 2007, Price: 17.99, InStock: false},
		{Title: "The Night Circus", Author: "Erin Morgenstern", Genre: "Fantasy", PublishedYear: 2011, Price: 13.99, InStock: true},
		{Title: "The Martian", Author: "Andy Weir", Genre: "Science Fiction", PublishedYear: 2014, Price: 12.49, InStock: false},
		{Title: "Project Hail Mary", Author: "Andy Weir", Genre: "Science Fiction", PublishedYear: 2021, Price: 16.99, InStock: true},
	}
}
