package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelpulse/backend-go/internal/domain"
)

func TestBuildAnalysisKeyDefault(t *testing.T) {
	assert.Equal(t, "runrate:analysis:default", buildAnalysisKey(nil))
	assert.Equal(t, "runrate:analysis:default", buildAnalysisKey(&domain.RecordFilter{}))
}

func TestBuildAnalysisKeyOrderInsensitive(t *testing.T) {
	a := &domain.RecordFilter{Distributors: []string{"B", "A"}, WindowWeeks: 4}
	b := &domain.RecordFilter{Distributors: []string{"A", "B"}, WindowWeeks: 4}
	assert.Equal(t, buildAnalysisKey(a), buildAnalysisKey(b))
}

func TestBuildAnalysisKeyDistinguishesFilters(t *testing.T) {
	a := &domain.RecordFilter{Models: []string{"RTX4070"}}
	b := &domain.RecordFilter{Models: []string{"GTX1650"}}
	c := &domain.RecordFilter{Models: []string{"RTX4070"}, TargetWeeks: 12}
	assert.NotEqual(t, buildAnalysisKey(a), buildAnalysisKey(b))
	assert.NotEqual(t, buildAnalysisKey(a), buildAnalysisKey(c))
}

func TestNoopAnalysisCache(t *testing.T) {
	c := NewNoopAnalysisCache()
	ctx := context.Background()

	view, hit, err := c.GetAnalysis(ctx, nil)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, view)

	require.NoError(t, c.SetAnalysis(ctx, nil, &domain.AnalysisView{}))
	require.NoError(t, c.InvalidateAll(ctx))
}
