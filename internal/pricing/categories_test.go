package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wenwu/saas-platform/pricing-service/internal/models"
)

func TestClassifyKeywords(t *testing.T) {
	cats := DefaultCategories()

	assert.Equal(t, "Infrastructure", Classify("Infrastructure Pro", cats))
	assert.Equal(t, "APM", Classify("Ingested Spans", cats))
	assert.Equal(t, "Serverless", Classify("Serverless Workload Monitoring", cats))
	assert.Equal(t, models.CategoryUnmatched, Classify("Completely Unknown Thing", cats))
}

func TestClassifyShortKeywordWholeWord(t *testing.T) {
	cats := DefaultCategories()

	// "ai" must match only as a whole token, never inside another word.
	assert.Equal(t, "AI", Classify("AI Agent Monitoring", cats))
	assert.NotEqual(t, "AI", Classify("Email Digest", cats))
}

func TestClassifyExplicitProductsWin(t *testing.T) {
	cats := []models.Category{
		{Name: "Custom", Order: 1, Products: []string{"Ingested Spans"}},
		{Name: "APM", Order: 2, Keywords: []string{"span"}},
	}
	assert.Equal(t, "Custom", Classify("Ingested Spans", cats))
}

func TestCategoryOrder(t *testing.T) {
	order := CategoryOrder(DefaultCategories())

	assert.Equal(t, 1, order["Infrastructure"])
	assert.Equal(t, 99, order[models.CategoryUnmatched])
}
