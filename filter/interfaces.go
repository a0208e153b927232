package filter

// Filter defines the basic interface for slot and stage filters
type Filter interface {
	// Evaluate checks if an item matches the filter criteria
	Evaluate(item Bookable) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Apply returns the items matching f, preserving order
func Apply[T Bookable](f Filter, items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if f.Evaluate(item) {
			out = append(out, item)
		}
	}
	return out
}

// Func adapts a plain predicate to Filter
type Func func(Bookable) bool

// Evaluate calls f
func (f Func) Evaluate(item Bookable) bool {
	return f(item)
}

// AvailableOnly is the Filter form of IsAvailable
var AvailableOnly Filter = Func(IsAvailable)
