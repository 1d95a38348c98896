package services

// Nullable is an optional input for a nullable column. Set reports whether
// the request carried the field at all; Value is nil for an explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null returns a Nullable that clears the column
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Some returns a Nullable holding v
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// ShoppingListInput carries the writable list fields. Nil pointers and
// unset Nullables leave the stored value alone.
type ShoppingListInput struct {
	Name        *string
	Description Nullable[string]
	Completed   *bool
}

// ItemInput carries the writable item fields
type ItemInput struct {
	Product   *string
	Quantity  Nullable[int]
	Unit      Nullable[string]
	Category  *string
	Note      Nullable[string]
	Completed *bool
}
