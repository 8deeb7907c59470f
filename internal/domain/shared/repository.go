package shared

// Filter carries the list-query options repositories understand. Zero values
// mean "no constraint": page/size zero disables pagination, empty OrderBy
// falls back to the repository's default ordering.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
