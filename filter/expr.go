package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/scparapente/baptctl/booking"
)

const dateLayout = "2006-01-02"

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	env        func(Bookable) map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithClock overrides the time source used by now() and daysUntil()
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.now = now
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	cache *lruCache[CompiledFilter]
	now   func() time.Time
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// The compile-time environment has the same shape as the runtime one,
	// so unknown identifiers and type mismatches fail here
	program, err := expr.Compile(expression,
		expr.Env(c.environment(zeroItem{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		env:        c.environment,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against an item. Runtime errors count as
// no match.
func (f *exprFilter) Evaluate(item Bookable) bool {
	result, err := expr.Run(f.program, f.env(item))
	if err != nil {
		return false
	}
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// environment builds the variables and helpers visible to an expression
func (c *exprCompiler) environment(item Bookable) map[string]any {
	env := make(map[string]any, 24)
	addHelperFunctions(env, c.now)

	when := item.When()
	names := InstructorNames(item)

	env["Places"] = item.Capacity()
	env["Bookings"] = item.BookingCount()
	env["Remaining"] = Remaining(item)
	env["Available"] = IsAvailable(item)
	env["Date"] = when
	env["Instructors"] = names

	env["hasInstructor"] = createHasInstructorFunc(names)
	env["onDate"] = func(day string) bool {
		return when.UTC().Format(dateLayout) == day
	}
	env["after"] = func(day string) bool {
		t, err := time.Parse(dateLayout, day)
		return err == nil && when.After(t)
	}
	env["before"] = func(day string) bool {
		t, err := time.Parse(dateLayout, day)
		return err == nil && when.Before(t)
	}

	return env
}

// addHelperFunctions adds the item-independent helpers
func addHelperFunctions(env map[string]any, now func() time.Time) {
	env["daysUntil"] = func(t time.Time) int {
		return int(t.Sub(now()).Hours() / 24)
	}
	env["weekday"] = func(t time.Time) string {
		return t.Weekday().String()
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse(dateLayout, dateStr)
		return t
	}
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = now
}

func createHasInstructorFunc(names []string) func(string) bool {
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	return func(name string) bool {
		return slices.Contains(lower, strings.ToLower(name))
	}
}

// HelperNames lists the functions available to expressions
func HelperNames() []string {
	env := (&exprCompiler{now: time.Now}).environment(zeroItem{})
	names := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		if _, isVar := variableNames[k]; !isVar {
			names = append(names, k)
		}
	}
	return names
}

var variableNames = map[string]struct{}{
	"Places": {}, "Bookings": {}, "Remaining": {}, "Available": {}, "Date": {}, "Instructors": {},
}

// zeroItem gives the compile-time environment its shape
type zeroItem struct{}

func (zeroItem) Capacity() int                             { return 0 }
func (zeroItem) BookingCount() int                         { return 0 }
func (zeroItem) InstructorLinks() []booking.InstructorLink { return nil }
func (zeroItem) When() time.Time                           { return time.Time{} }
