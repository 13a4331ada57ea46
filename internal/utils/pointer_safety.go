package utils

// Value dereferences v, returning the zero value for nil
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// PtrIf returns a pointer to v when cond holds, nil otherwise
func PtrIf[T any](cond bool, v T) *T {
	if !cond {
		return nil
	}
	return &v
}
