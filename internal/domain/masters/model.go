package masters

import "fmt"

type Category string

const (
	CategoryMaterial Category = "Material"
	CategoryGrade    Category = "Grade"
	CategorySupplier Category = "Supplier"
	CategoryCustomer Category = "Customer"
)

// Entry is one (category, name) pair of the master list.
type Entry struct {
	Category Category
	Name     string
}

// DuplicateNameError reports an Add of a name that already exists in its
// category. The duplicate check is an exact, case-sensitive match.
type DuplicateNameError struct {
	Category Category
	Name     string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Category, e.Name)
}
