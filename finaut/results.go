package finaut

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Result is an exam or assessment result.
type Result struct {
	ID         int    `json:"id,omitempty"`
	URL        string `json:"url,omitempty"`
	User       string `json:"user,omitempty"`
	AppName    string `json:"appname,omitempty"`
	TestName   string `json:"test_name,omitempty"`
	Passed     bool   `json:"passed,omitempty"`
	Score      int    `json:"score,omitempty"`
	ResultDate string `json:"result_date,omitempty"`
}

// ResultListOptions filters result listings.
type ResultListOptions struct {
	// FromDate keeps only results from this date on (YYYY-MM-DD).
	FromDate string

	Persnr        string
	EmployeeAlias string
	Page          int
}

func (o *ResultListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.FromDate != "" {
		q.Set("from_date", o.FromDate)
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

// UserResultsOptions identifies the user whose results to collect.
// At least one field must be set.
type UserResultsOptions struct {
	UserID        int
	Persnr        string
	EmployeeAlias string
}

// ResultService handles exam and assessment result API operations.
type ResultService struct {
	client *Client
}

// List returns a page of results matching the given filters.
func (s *ResultService) List(ctx context.Context, opts *ResultListOptions) (*Page[Result], error) {
	var page Page[Result]
	if err := s.client.get(ctx, "results/", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a specific result by ID.
func (s *ResultService) Get(ctx context.Context, id int) (*Result, error) {
	var result Result
	if err := s.client.get(ctx, fmt.Sprintf("results/%d/", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UserResults collects all results for one user across every page.
func (s *ResultService) UserResults(ctx context.Context, opts *UserResultsOptions) ([]Result, error) {
	if opts == nil || (opts.UserID == 0 && opts.Persnr == "" && opts.EmployeeAlias == "") {
		return nil, errors.New("finaut: at least one user identifier is required")
	}

	var userURL string
	if opts.UserID != 0 {
		userURL = s.client.ResourceURL("user", opts.UserID)
	}

	var all []Result
	for page := 1; ; page++ {
		resp, err := s.List(ctx, &ResultListOptions{
			Persnr:        opts.Persnr,
			EmployeeAlias: opts.EmployeeAlias,
			Page:          page,
		})
		if err != nil {
			return nil, err
		}

		for _, result := range resp.Results {
			if userURL != "" && result.User != userURL {
				continue
			}
			all = append(all, result)
		}

		if !resp.HasNext() {
			break
		}
	}

	return all, nil
}

// Recent collects all results from the last days days across every page.
func (s *ResultService) Recent(ctx context.Context, days int) ([]Result, error) {
	fromDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	var all []Result
	for page := 1; ; page++ {
		resp, err := s.List(ctx, &ResultListOptions{FromDate: fromDate, Page: page})
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Results...)

		if !resp.HasNext() {
			break
		}
	}

	return all, nil
}
