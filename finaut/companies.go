package finaut

import (
	"context"
	"fmt"
)

// Company is an organization with access to the FinAut registry.
type Company struct {
	ID          int      `json:"id,omitempty"`
	URL         string   `json:"url,omitempty"`
	Name        string   `json:"name,omitempty"`
	OrgNr       string   `json:"orgnr,omitempty"`
	Departments []string `json:"departments,omitempty"`
}

// CompanyService handles company-related API operations.
type CompanyService struct {
	client *Client
}

// List returns a page of the companies accessible to the credentials.
func (s *CompanyService) List(ctx context.Context, opts *ListOptions) (*Page[Company], error) {
	var page Page[Company]
	if err := s.client.get(ctx, "companies/", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a specific company by ID.
func (s *CompanyService) Get(ctx context.Context, id int) (*Company, error) {
	var company Company
	if err := s.client.get(ctx, fmt.Sprintf("companies/%d/", id), nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// Departments returns the department resource URLs of a company.
func (s *CompanyService) Departments(ctx context.Context, id int) ([]string, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return company.Departments, nil
}
