// Package roster finds an enrolled employee from what an operator types on the
// command line: an id or (part of) a name.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/gateway"
)

var ErrNotFound = errors.New("employee not found")

// AmbiguousError lists the employees a query matched when it matched more than one.
type AmbiguousError struct {
	Query      string
	Candidates []gateway.Employee
}

func (e *AmbiguousError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, fmt.Sprintf("%s (#%d)", c.Name, c.ID))
	}
	return fmt.Sprintf("%q matches %d employees: %s", e.Query, len(e.Candidates), strings.Join(names, ", "))
}

// Lister lists enrolled employees.
type Lister interface {
	ListEmployees(ctx context.Context) ([]gateway.Employee, error)
}

// Resolve fetches the employee list and picks the one query refers to.
func Resolve(ctx context.Context, l Lister, query string) (*gateway.Employee, error) {
	employees, err := l.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	return Find(employees, query)
}

// Find picks an employee by numeric id, then by exact normalized name, then by
// a normalized name containing the query.
func Find(employees []gateway.Employee, query string) (*gateway.Employee, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrNotFound)
	}

	if id, err := strconv.ParseUint(query, 10, 64); err == nil {
		for i := range employees {
			if uint64(employees[i].ID) == id {
				return &employees[i], nil
			}
		}
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	want := NormalizeName(query)
	var exact, partial []gateway.Employee
	for _, e := range employees {
		name := NormalizeName(e.Name)
		switch {
		case name == want:
			exact = append(exact, e)
		case strings.Contains(name, want):
			partial = append(partial, e)
		}
	}

	for _, matches := range [][]gateway.Employee{exact, partial} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return &matches[0], nil
		default:
			return nil, &AmbiguousError{Query: query, Candidates: matches}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, query)
}

// Filter keeps the employees whose normalized name contains the query, in
// their original order.
func Filter(employees []gateway.Employee, query string) []gateway.Employee {
	want := NormalizeName(query)
	if want == "" {
		return employees
	}
	var out []gateway.Employee
	for _, e := range employees {
		if strings.Contains(NormalizeName(e.Name), want) {
			out = append(out, e)
		}
	}
	return out
}
