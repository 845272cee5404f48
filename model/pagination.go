package model

// Offset returns the row offset of currentPage. Pages start at 1; zero or
// negative pages yield a negative offset which is passed through unchanged.
func Offset(currentPage, pageSize int) int {
	return (currentPage - 1) * pageSize
}
