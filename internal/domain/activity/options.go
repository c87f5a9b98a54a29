package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	IdeaID       *string
	Username     *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
