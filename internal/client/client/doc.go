// Package client talks to the kasir HTTP API.
//
// HTTPClient keeps the bearer token obtained by Login and attaches it to
// every /api call. Transport failures match ErrUnavailable, error envelopes
// come back as *APIError (a 401 also matches ErrUnauthorized).
package client
