package finaut

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// WorkFor links a user to the department and company employing them, by
// resource URL.
type WorkFor struct {
	Department string `json:"department,omitempty"`
	Company    string `json:"company,omitempty"`
}

// User is a registered person in the FinAut registry.
type User struct {
	ID            int      `json:"id,omitempty"`
	URL           string   `json:"url,omitempty"`
	Persnr        string   `json:"persnr,omitempty"`
	FirstName     string   `json:"first_name,omitempty"`
	LastName      string   `json:"last_name,omitempty"`
	Email         string   `json:"email,omitempty"`
	Mobile        string   `json:"mobile,omitempty"`
	EmployeeAlias string   `json:"employee_alias,omitempty"`
	WorkFor       *WorkFor `json:"work_for,omitempty"`
	UserRoles     []string `json:"userroles,omitempty"`
}

// UserListOptions filters user listings.
type UserListOptions struct {
	// Persnr filters by Norwegian social security number.
	Persnr string

	// EncodedUserID filters by encrypted user ID.
	EncodedUserID string

	// EmployeeAlias filters by employee alias.
	EmployeeAlias string

	// Page is the 1-based page number; zero requests the first page.
	Page int
}

func (o *UserListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.Persnr != "" {
		q.Set("persnr", o.Persnr)
	}
	if o.EncodedUserID != "" {
		q.Set("encoded_userid", o.EncodedUserID)
	}
	if o.EmployeeAlias != "" {
		q.Set("employee_alias", o.EmployeeAlias)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	return q
}

// UserService handles user-related API operations.
type UserService struct {
	client *Client
}

// List returns a page of users matching the given filters.
func (s *UserService) List(ctx context.Context, opts *UserListOptions) (*Page[User], error) {
	var page Page[User]
	if err := s.client.get(ctx, "user/", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a specific user by ID.
func (s *UserService) Get(ctx context.Context, id int) (*User, error) {
	var user User
	if err := s.client.get(ctx, fmt.Sprintf("user/%d/", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create registers a new user. Persnr, FirstName and LastName are required by
// the API; WorkFor links the user to a department and company by resource URL.
func (s *UserService) Create(ctx context.Context, user *User) (*User, error) {
	var created User
	if err := s.client.post(ctx, "user/", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces an existing user (full update).
func (s *UserService) Update(ctx context.Context, id int, user *User) (*User, error) {
	var updated User
	if err := s.client.put(ctx, fmt.Sprintf("user/%d/", id), user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PartialUpdate changes only the given fields of an existing user.
func (s *UserService) PartialUpdate(ctx context.Context, id int, fields map[string]any) (*User, error) {
	var updated User
	if err := s.client.patch(ctx, fmt.Sprintf("user/%d/", id), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("user/%d/", id))
}

// SearchByPersnr returns the user with the given Norwegian social security
// number, or ErrNotFound when no user matches.
func (s *UserService) SearchByPersnr(ctx context.Context, persnr string) (*User, error) {
	page, err := s.List(ctx, &UserListOptions{Persnr: persnr})
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, ErrNotFound
	}
	return &page.Results[0], nil
}

// SearchByEmployeeAlias returns the user with the given employee alias, or
// ErrNotFound when no user matches.
func (s *UserService) SearchByEmployeeAlias(ctx context.Context, alias string) (*User, error) {
	page, err := s.List(ctx, &UserListOptions{EmployeeAlias: alias})
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, ErrNotFound
	}
	return &page.Results[0], nil
}
