package finaut

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CompetencyResult records a competency goal achieved in an external system.
// Users are identified by the encrypted ID the external system knows them by.
type CompetencyResult struct {
	ID             int    `json:"id,omitempty"`
	URL            string `json:"url,omitempty"`
	User           string `json:"user"`
	Goal           int    `json:"goal"`
	PassedDate     string `json:"passed_date,omitempty"`
	ExternalSystem string `json:"external_system,omitempty"`
	ExternalID     string `json:"external_id,omitempty"`
}

// CompetencyResultListOptions filters competency result listings.
type CompetencyResultListOptions struct {
	// EncryptedUserID filters by the user's ID in the external system.
	EncryptedUserID string

	Page int
}

func (o *CompetencyResultListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.EncryptedUserID != "" {
		q.Set("encrypted_userid", o.EncryptedUserID)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	return q
}

// RecordCompletionOptions carries the optional fields of RecordCompletion.
type RecordCompletionOptions struct {
	ExternalSystem string
	ExternalID     string
}

// CompetencyResultService handles competency result API operations.
type CompetencyResultService struct {
	client *Client
}

// List returns a page of competency results matching the given filters.
func (s *CompetencyResultService) List(ctx context.Context, opts *CompetencyResultListOptions) (*Page[CompetencyResult], error) {
	var page Page[CompetencyResult]
	if err := s.client.get(ctx, "competency_result/", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a specific competency result by ID.
func (s *CompetencyResultService) Get(ctx context.Context, id int) (*CompetencyResult, error) {
	var result CompetencyResult
	if err := s.client.get(ctx, fmt.Sprintf("competency_result/%d/", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create records a new competency result. User and Goal are required.
func (s *CompetencyResultService) Create(ctx context.Context, result *CompetencyResult) (*CompetencyResult, error) {
	var created CompetencyResult
	if err := s.client.post(ctx, "competency_result/", result, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// RecordCompletion records that a user achieved a competency goal on the
// given date (YYYY-MM-DD).
func (s *CompetencyResultService) RecordCompletion(ctx context.Context, encryptedUserID string, goalID int, passedDate string, opts *RecordCompletionOptions) (*CompetencyResult, error) {
	result := &CompetencyResult{
		User:       encryptedUserID,
		Goal:       goalID,
		PassedDate: passedDate,
	}
	if opts != nil {
		result.ExternalSystem = opts.ExternalSystem
		result.ExternalID = opts.ExternalID
	}

	return s.Create(ctx, result)
}
