// Package transport supplies the fetch capabilities the update pipeline
// consumes: text for the appcast, bytes for the artifact.
//
// The pipeline depends on the Fetcher interface only; HTTPFetcher is the
// production implementation.
package transport
