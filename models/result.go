package models

// RenderResult is the unified return type for all fetch engines.
type RenderResult struct {
	// PageHTML is the full rendered (or downloaded) page HTML.
	PageHTML string

	// Title is the page title.
	Title string

	// StatusCode is the HTTP status of the document request, 0 if unknown.
	StatusCode int

	// FinalURL is the URL after redirects.
	FinalURL string

	// EngineName records which engine produced the result.
	EngineName string

	// FragmentHTML is the overview fragment captured from a network
	// response, empty when the engine could not sniff one.
	FragmentHTML string

	// FragmentURL is the URL of the response FragmentHTML came from.
	FragmentURL string
}
