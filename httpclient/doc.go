// Package httpclient builds HTTP clients that authenticate against the FinAut API.
//
// AuthTransport is an http.RoundTripper that asks an auth.HeaderSource for an
// Authorization header before every request. When the API answers 401 and the source
// supports invalidation, the cached token is discarded and the request is retried once
// with a fresh token. Builder offers fluent construction of a *http.Client with
// authentication, timeouts, and TLS/mTLS.
//
// # Quick Start
//
//	tm := auth.NewTokenManager(ctx, tokenURL, clientID, clientSecret, "read write")
//
//	client, err := httpclient.NewBuilder().
//	    WithHeaderSource(tm).
//	    WithTimeout(30 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get("https://api.norsktest.no/finautapi/v1/companies/")
package httpclient
