package idea

import (
	"strings"
	"time"
)

// Category groups ideas for filtering and the per-category summary.
type Category string

const (
	CategoryTechnology         Category = "Technology"
	CategoryOperations         Category = "Operations"
	CategoryHR                 Category = "HR"
	CategoryCustomerExperience Category = "Customer Experience"
	CategoryOther              Category = "Other"
)

// CategoryAll is the list filter value that disables category matching.
const CategoryAll = "All"

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryOperations,
	CategoryHR,
	CategoryCustomerExperience,
	CategoryOther,
}

// Status represents the review state of an idea
type Status string

const (
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
)

// Idea is a submitted innovation idea with its vote counter
type Idea struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	Votes       int       `json:"votes"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Matches reports whether the idea passes the keyword and category filters.
func (i Idea) Matches(opts ListOptions) bool {
	if opts.Category != "" && !strings.EqualFold(opts.Category, CategoryAll) &&
		!strings.EqualFold(string(i.Category), opts.Category) {
		return false
	}
	keyword := strings.ToLower(strings.TrimSpace(opts.Keyword))
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Title), keyword) ||
		strings.Contains(strings.ToLower(i.Description), keyword)
}

// CategoryCount is one bar of the ideas-per-category summary
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
