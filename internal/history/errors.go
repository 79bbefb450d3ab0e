package history

import "fmt"

// LoadError reports a data source that could not be turned into a store.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load observations: %v", e.Err)
	}
	return fmt.Sprintf("load observations from %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// UnknownProductError is returned for products never seen during load.
type UnknownProductError struct {
	Product string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q", e.Product)
}
