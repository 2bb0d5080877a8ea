package finaut

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Status values the API accepts when creating a user status. Only inactive
// ("hvilende") and withdrawn ("utmeldt") can be created; activation happens
// through other channels.
const (
	StatusInactive  = "hvilende"
	StatusWithdrawn = "utmeldt"
)

// UserStatus records a change to a user's standing in an authorization scheme.
type UserStatus struct {
	ID  int    `json:"id,omitempty"`
	URL string `json:"url,omitempty"`

	// AppName is the authorization scheme code, e.g. "afr" or "krd".
	// A short code, not a resource URL.
	AppName string `json:"appname"`

	User        string `json:"user"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	StatusDate  string `json:"status_date,omitempty"`
	StatusSetBy string `json:"status_set_by"`
	Comment     string `json:"comment,omitempty"`
}

// UserStatusListOptions filters user status listings.
type UserStatusListOptions struct {
	Persnr        string
	EmployeeAlias string
	Page          int
}

func (o *UserStatusListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.Persnr != "" {
		q.Set("persnr", o.Persnr)
	}
	if o.EmployeeAlias != "" {
		q.Set("employee_alias", o.EmployeeAlias)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	return q
}

// SetStatusOptions carries the optional fields of SetInactive and SetWithdrawn.
type SetStatusOptions struct {
	// StatusDate is the date of the change (YYYY-MM-DD); today when empty.
	StatusDate string

	// Comment is attached to the status change.
	Comment string

	// StatusSetByID identifies the user recording the change; the affected
	// user when zero.
	StatusSetByID int
}

// UserStatusService handles user status API operations.
type UserStatusService struct {
	client *Client
}

// List returns a page of user statuses matching the given filters.
func (s *UserStatusService) List(ctx context.Context, opts *UserStatusListOptions) (*Page[UserStatus], error) {
	var page Page[UserStatus]
	if err := s.client.get(ctx, "userstatus/", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a specific user status by ID.
func (s *UserStatusService) Get(ctx context.Context, id int) (*UserStatus, error) {
	var status UserStatus
	if err := s.client.get(ctx, fmt.Sprintf("userstatus/%d/", id), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Create records a new user status. Status must be StatusInactive or
// StatusWithdrawn.
func (s *UserStatusService) Create(ctx context.Context, status *UserStatus) (*UserStatus, error) {
	var created UserStatus
	if err := s.client.post(ctx, "userstatus/", status, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetInactive marks a user inactive ("hvilende") in an authorization scheme.
func (s *UserStatusService) SetInactive(ctx context.Context, userID int, appname string, opts *SetStatusOptions) (*UserStatus, error) {
	return s.Create(ctx, s.statusChange(userID, appname, StatusInactive, opts))
}

// SetWithdrawn marks a user withdrawn ("utmeldt") from an authorization scheme.
func (s *UserStatusService) SetWithdrawn(ctx context.Context, userID int, appname string, opts *SetStatusOptions) (*UserStatus, error) {
	return s.Create(ctx, s.statusChange(userID, appname, StatusWithdrawn, opts))
}

// Latest returns the most recent status for a user.
func (s *UserStatusService) Latest(ctx context.Context, persnr string) (*UserStatus, error) {
	q := url.Values{}
	if persnr != "" {
		q.Set("persnr", persnr)
	}

	var status UserStatus
	if err := s.client.get(ctx, "latestuserstatus/", q, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *UserStatusService) statusChange(userID int, appname, status string, opts *SetStatusOptions) *UserStatus {
	if opts == nil {
		opts = &SetStatusOptions{}
	}

	setByID := opts.StatusSetByID
	if setByID == 0 {
		setByID = userID
	}

	statusDate := opts.StatusDate
	if statusDate == "" {
		statusDate = time.Now().Format("2006-01-02")
	}

	return &UserStatus{
		AppName: appname,
		User:    s.client.ResourceURL("user", userID),
		Status:  status,
		// The API requires a reason; it mirrors the status for these changes.
		Reason:      status,
		StatusDate:  statusDate,
		StatusSetBy: s.client.ResourceURL("user", setByID),
		Comment:     opts.Comment,
	}
}
