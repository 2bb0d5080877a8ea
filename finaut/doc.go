// Package finaut is a client for the FinAut API.
//
// A Client authenticates through OAuth2 client credentials (package auth), retries
// once with a fresh token when the API rejects one, and exposes the API's resources
// as services: Users, Companies, Departments, UserStatus, Results, CompetencyResults,
// and Employment. List endpoints return paginated envelopes as Page values.
//
// # Features
//
//   - Per-client token manager: each Client owns its credentials, no shared state
//   - Typed status-code errors matched with errors.Is (ErrNotFound, ErrValidation, ...)
//   - Pagination helpers that walk every page of a listing
//   - Basic authentication mode for test environments (WithBasicAuth)
//   - Webhook signature verification and Norwegian test D-number generation
//
// # Quick Start
//
//	client, err := finaut.New("client-id", "client-secret")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	companies, err := client.Companies.List(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, company := range companies.Results {
//	    fmt.Println(company.Name)
//	}
package finaut
