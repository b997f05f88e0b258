package handler

// Route names requests for metrics
type Route string

const (
	// RouteList lists the collection
	RouteList Route = "list"
	// RouteCreate creates a guitar
	RouteCreate Route = "create"
	// RouteDelete deletes a guitar
	RouteDelete Route = "delete"
)
