package idea

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func titles(ideas []Idea, opts ListOptions) []string {
	var out []string
	for _, i := range ideas {
		if i.Matches(opts) {
			out = append(out, i.Title)
		}
	}
	return out
}

func TestIdea_Matches(t *testing.T) {
	ideas := []Idea{
		{Title: "Smart AI", Description: "assistant", Category: CategoryTechnology},
		{Title: "Eco Box", Description: "packaging", Category: CategoryOperations},
	}

	require.Equal(t, []string{"Eco Box"}, titles(ideas, ListOptions{Keyword: "eco"}))
	require.Equal(t, []string{"Smart AI"}, titles(ideas, ListOptions{Category: "Technology"}))
	require.Equal(t, []string{"Smart AI", "Eco Box"}, titles(ideas, ListOptions{Category: CategoryAll}))
	require.Equal(t, []string{"Smart AI", "Eco Box"}, titles(ideas, ListOptions{Category: "all"}))
	require.Equal(t, []string{"Smart AI"}, titles(ideas, ListOptions{Category: "technology"}))
	require.Equal(t, []string{"Eco Box"}, titles(ideas, ListOptions{Keyword: "PACK"}))
	require.Empty(t, titles(ideas, ListOptions{Keyword: "eco", Category: "Technology"}))

	solar := []Idea{{Title: "Énergie Solaire", Description: "Panneaux sur le toit", Category: CategoryOther}}
	require.Equal(t, []string{"Énergie Solaire"}, titles(solar, ListOptions{Keyword: "énergie"}))
	require.Equal(t, []string{"Énergie Solaire"}, titles(solar, ListOptions{Keyword: "ÉNERGIE"}))
}

func TestValidateTransition(t *testing.T) {
	require.NoError(t, ValidateTransition(StatusUnderReview, StatusApproved))
	require.NoError(t, ValidateTransition(StatusUnderReview, StatusRejected))
	require.NoError(t, ValidateTransition(StatusRejected, StatusUnderReview))
	require.ErrorIs(t, ValidateTransition(StatusApproved, StatusRejected), ErrInvalidTransition)
	require.ErrorIs(t, ValidateTransition(StatusUnderReview, StatusUnderReview), ErrInvalidTransition)
}
