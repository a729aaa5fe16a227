package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakdownAt(totalCost, suggested float64) Breakdown {
	return Breakdown{TotalCost: totalCost, SuggestedPrice: suggested, MarkupPercent: 150, MarkupMultiplier: 2.5}
}

func TestCompareStrategies_WithoutCompetitor(t *testing.T) {
	got := CompareStrategies(breakdownAt(16.04, 40.10), 0)
	require.Len(t, got, 2)

	assert.Equal(t, StrategyCostPlus, got[0].Strategy)
	nearlyEqual(t, "cost-plus price", got[0].Price, 40.10)
	nearlyEqual(t, "cost-plus profit", got[0].Profit, 24.06)
	assert.Equal(t, BadgeExcellent, got[0].Badge)

	assert.Equal(t, StrategyPremium, got[1].Strategy)
	nearlyEqual(t, "premium price", got[1].Price, 48.12)
	assert.Contains(t, got[1].Description, "high-demand")
}

func TestCompareStrategies_OrderIsFixed(t *testing.T) {
	// A competitor price above premium must not reorder the list.
	got := CompareStrategies(breakdownAt(10, 25), 100)
	require.Len(t, got, 3)
	assert.Equal(t, []Strategy{StrategyCostPlus, StrategyCompetitorMatch, StrategyPremium},
		[]Strategy{got[0].Strategy, got[1].Strategy, got[2].Strategy})
}

func TestCompareStrategies_CompetitorRecommendation(t *testing.T) {
	healthy := CompareStrategies(breakdownAt(10, 25), 20)[1]
	nearlyEqual(t, "healthy margin", healthy.MarginPercentage, 50)
	assert.Contains(t, healthy.Recommendation, "Healthy")

	thin := CompareStrategies(breakdownAt(10, 25), 12)[1]
	assert.Less(t, thin.MarginPercentage, HealthyCompetitorMargin)
	assert.Contains(t, thin.Recommendation, "Thin margin")
	assert.Equal(t, BadgeLow, thin.Badge)
}

func TestCompareStrategies_ZeroCost(t *testing.T) {
	got := CompareStrategies(breakdownAt(0, 0), 5)
	for _, c := range got {
		nearlyEqual(t, string(c.Strategy)+" multiplier", c.Multiplier, 0)
	}
	nearlyEqual(t, "cost-plus margin", got[0].MarginPercentage, 0)
	nearlyEqual(t, "competitor margin", got[1].MarginPercentage, 100)
}

func TestClassifyMargin_Thresholds(t *testing.T) {
	assert.Equal(t, 40.0, LowMarginThreshold)
	assert.Equal(t, 60.0, ExcellentMarginThreshold)

	assert.Equal(t, BadgeLow, ClassifyMargin(-5))
	assert.Equal(t, BadgeLow, ClassifyMargin(LowMarginThreshold-0.01))
	assert.Equal(t, BadgeGood, ClassifyMargin(LowMarginThreshold))
	assert.Equal(t, BadgeGood, ClassifyMargin(59.99))
	assert.Equal(t, BadgeExcellent, ClassifyMargin(ExcellentMarginThreshold))
}

func TestEvaluate(t *testing.T) {
	even := Evaluate(100, 100)
	nearlyEqual(t, "profit", even.Profit, 0)
	nearlyEqual(t, "margin", even.MarginPercentage, 0)
	nearlyEqual(t, "multiplier", even.Multiplier, 1)
	assert.False(t, even.IsViable)
	assert.Equal(t, RecommendationBelowMin, even.Recommendation)

	good := Evaluate(100, 150)
	nearlyEqual(t, "profit", good.Profit, 50)
	assert.InDelta(t, 33.33, good.MarginPercentage, 0.01)
	nearlyEqual(t, "multiplier", good.Multiplier, 1.5)
	assert.True(t, good.IsViable)
	assert.Equal(t, RecommendationAcceptable, good.Recommendation)

	free := Evaluate(0, 50)
	nearlyEqual(t, "multiplier", free.Multiplier, 0)
	nearlyEqual(t, "margin", free.MarginPercentage, 100)
	assert.Equal(t, RecommendationStrong, free.Recommendation)

	nothing := Evaluate(0, 0)
	nearlyEqual(t, "margin", nothing.MarginPercentage, 0)
	nearlyEqual(t, "multiplier", nothing.Multiplier, 0)
}

func TestEvaluate_Bands(t *testing.T) {
	loss := Evaluate(100, 80)
	assert.Less(t, loss.Profit, 0.0)
	assert.Less(t, loss.MarginPercentage, 0.0)
	assert.Equal(t, RecommendationLoss, loss.Recommendation)
	assert.False(t, loss.IsViable)

	assert.Equal(t, RecommendationBelowMin, Evaluate(100, 120).Recommendation)
	assert.Equal(t, RecommendationStrong, Evaluate(100, 200).Recommendation)
	assert.True(t, Evaluate(70, 100).IsViable, "exactly the minimum viable margin")
}
