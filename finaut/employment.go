package finaut

import (
	"context"
	"fmt"
)

// Employment links a user to the department and company employing them.
type Employment struct {
	ID         int    `json:"id,omitempty"`
	URL        string `json:"url,omitempty"`
	User       string `json:"user,omitempty"`
	Department string `json:"department,omitempty"`
	Company    string `json:"company,omitempty"`
}

// EmploymentService handles employment record API operations.
type EmploymentService struct {
	client *Client
}

// Get returns a specific employment record by ID.
func (s *EmploymentService) Get(ctx context.Context, id int) (*Employment, error) {
	var employment Employment
	if err := s.client.get(ctx, fmt.Sprintf("employment/%d/", id), nil, &employment); err != nil {
		return nil, err
	}
	return &employment, nil
}
