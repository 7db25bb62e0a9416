// Package api provides HTTP client functionality for communicating with the
// SendGrid v3 API. It handles authentication, request serialization and the
// normalization of responses into values or errors.
//
// # Client Creation
//
// [NewClient] takes a [Config]. Only the API key is required; the base URL
// defaults to [DefaultBaseURL] and every request is bounded by
// [DefaultTimeout] unless configured otherwise. The key is sent as
// "Authorization: Bearer <key>" together with JSON Accept and Content-Type
// headers.
//
// # Requests
//
// [Client.Do] is the single request primitive. For GET the options become
// the query string (the "?" is always present, even with no parameters);
// for any other method they are encoded as the JSON body. No retries are
// performed.
//
// # Error Handling
//
// A response body carrying an "error" object or an "errors" list is turned
// into an [apierrors.ProviderError] regardless of the HTTP status. An
// "errors" list is flattened by joining each entry's values with ";" in
// the order they appear. Network failures surface as
// [apierrors.TransportError] and bodies that are not JSON as
// [apierrors.DecodeError]. An empty body is treated as JSON null.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
