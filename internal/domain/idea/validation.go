package idea

import "strings"

// ValidateSubmitInput validates fields required to submit an idea.
func ValidateSubmitInput(req SubmitRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrMissingField
	}
	if strings.TrimSpace(req.Title) == "" {
		return ErrMissingField
	}
	if strings.TrimSpace(req.Description) == "" {
		return ErrMissingField
	}
	return nil
}

// ParseCategory resolves a category name. An empty name means CategoryOther.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// ParseStatus resolves a status name.
func ParseStatus(name string) (Status, error) {
	for _, s := range []Status{StatusUnderReview, StatusApproved, StatusRejected} {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

// ValidateTransition validates a requested status change.
func ValidateTransition(from, to Status) error {
	valid := false
	switch from {
	case StatusUnderReview:
		valid = to == StatusApproved || to == StatusRejected
	case StatusApproved, StatusRejected:
		valid = to == StatusUnderReview
	}
	if !valid {
		return ErrInvalidTransition
	}
	return nil
}
