package idea

// ListOptions provides filtering options for listing ideas.
type ListOptions struct {
	Keyword     string
	Category    string
	SortByVotes bool
	Limit       int
	Offset      int
}
