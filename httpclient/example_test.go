package httpclient_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/norsktest/finaut-go/auth"
	"github.com/norsktest/finaut-go/httpclient"
)

// Example demonstrates basic HTTP client usage with OAuth2.
func Example() {
	ctx := context.Background()

	// Create token manager
	tm := auth.NewTokenManager(
		ctx,
		"https://api.norsktest.no/o/token/",
		"client-id",
		"client-secret",
		"read write",
	)

	// Create HTTP client
	client := httpclient.NewHTTPClient(tm)

	fmt.Printf("HTTP client created with timeout: %v\n", client.Timeout)
	// Output: HTTP client created with timeout: 30s
}

// ExampleNewHTTPClient demonstrates the simple way to create an HTTP client.
func ExampleNewHTTPClient() {
	ctx := context.Background()

	tm := auth.NewTokenManager(
		ctx,
		"https://api.norsktest.no/o/token/",
		"client-id",
		"client-secret",
		"read write",
	)

	client := httpclient.NewHTTPClient(tm)

	fmt.Printf("Client timeout: %v\n", client.Timeout)
	// Output: Client timeout: 30s
}

// ExampleNewBuilder demonstrates using the builder pattern for HTTP clients.
func ExampleNewBuilder() {
	ctx := context.Background()

	client, err := httpclient.NewBuilder().
		WithOAuth2(ctx, "https://api.norsktest.no/o/token/", "client-id", "secret", "read write").
		WithTimeout(60 * time.Second).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Client timeout: %v\n", client.Timeout)
	// Output: Client timeout: 1m0s
}

// ExampleBuilder_WithBasicAuth demonstrates Basic authentication for test environments.
func ExampleBuilder_WithBasicAuth() {
	client, err := httpclient.NewBuilder().
		WithBasicAuth("test_user", "test_pass").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Client timeout: %v\n", client.Timeout)
	// Output: Client timeout: 30s
}
