package finaut

import (
	"context"
	"fmt"
)

// Department is an organizational unit within a company.
type Department struct {
	ID         int      `json:"id,omitempty"`
	URL        string   `json:"url,omitempty"`
	Name       string   `json:"name,omitempty"`
	Company    string   `json:"company,omitempty"`
	Franchises []string `json:"franchises,omitempty"`
}

// DepartmentService handles department-related API operations.
type DepartmentService struct {
	client *Client
}

// List returns a page of the departments accessible to the credentials.
func (s *DepartmentService) List(ctx context.Context, opts *ListOptions) (*Page[Department], error) {
	var page Page[Department]
	if err := s.client.get(ctx, "departments/", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a specific department by ID.
func (s *DepartmentService) Get(ctx context.Context, id int) (*Department, error) {
	var department Department
	if err := s.client.get(ctx, fmt.Sprintf("departments/%d/", id), nil, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

// Franchises returns the franchise resource URLs of a department.
func (s *DepartmentService) Franchises(ctx context.Context, id int) ([]string, error) {
	department, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return department.Franchises, nil
}
