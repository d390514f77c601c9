package search

import "errors"

// ErrNoSearchService is reported when the view has nothing to query.
var ErrNoSearchService = errors.New("search service is required")
