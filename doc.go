// Package swiftype is a Go client for the Swiftype App Search API.
//
// The client covers engines, documents and search. Every operation builds a
// request descriptor and sends it through a single executor that appends the
// auth_token query parameter, JSON encodes the body and classifies the
// response:
//
//	client, err := swiftype.New(swiftype.Config{
//	    Host:   "https://host-xxxx.api.swiftype.com",
//	    APIKey: os.Getenv("SWIFTYPE_API_KEY"),
//	})
//	_, _ = client.CreateEngine(ctx, "books")
//	_, _ = client.CreateDocuments(ctx, "books", []swiftype.Document{
//	    {"id": "1", "title": "The Go Programming Language"},
//	})
//	resp, err := client.Search(ctx, "books", "go", swiftype.SearchOptions{
//	    "page": map[string]any{"size": 5},
//	})
//
// # Errors
//
// Failed calls return *Error. Use errors.Is with ErrConfiguration,
// ErrTransport, ErrUnauthorized, ErrRequestFailed or ErrMalformedResponse,
// or errors.As to read the status code and raw body.
//
// Per-document failures inside a successful batch response are not errors;
// they are returned untouched in Response.Body.
package swiftype
