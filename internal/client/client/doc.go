// Package client talks to the notekeeper HTTP API.
//
// HTTPClient keeps the current token pair after Login. Calls to the notes
// endpoints carry the access token; when the server answers 401 the client
// redeems the refresh token once and retries the call with the new pair.
//
// Transport failures are reported as ErrUnavailable, rejected credentials or
// tokens as ErrUnauthorized. Any other non-2xx answer is an *APIError carrying
// the server's messages.
package client
