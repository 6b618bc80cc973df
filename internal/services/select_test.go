package services

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-route-service/internal/domain"
)

func cand(name string, total float64) domain.RouteCandidate {
	return domain.RouteCandidate{
		Stops: []domain.Location{domain.Home(), domain.StoreLocation(name), domain.Home()},
		Total: total,
	}
}

func TestSelectRoute_RanksAndMargin(t *testing.T) {
	res, err := SelectRoute([]domain.RouteCandidate{cand("A", 12), cand("B", 10), cand("C", 15)})
	require.NoError(t, err)

	assert.Equal(t, "B", res.Winner.StoresVisited()[0])
	assert.Equal(t, 2.0, res.Margin)
	require.Len(t, res.Candidates, 3)
	assert.Equal(t, []float64{10, 12, 15}, []float64{res.Candidates[0].Total, res.Candidates[1].Total, res.Candidates[2].Total})
}

func TestSelectRoute_TiesKeepInputOrder(t *testing.T) {
	res, err := SelectRoute([]domain.RouteCandidate{cand("A", 10), cand("B", 10), cand("C", 9)})
	require.NoError(t, err)

	assert.Equal(t, "C", res.Candidates[0].StoresVisited()[0])
	assert.Equal(t, "A", res.Candidates[1].StoresVisited()[0])
	assert.Equal(t, "B", res.Candidates[2].StoresVisited()[0])
}

func TestSelectRoute_SingleCandidateZeroMargin(t *testing.T) {
	res, err := SelectRoute([]domain.RouteCandidate{cand("A", 4)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Margin)
}

func TestSelectRoute_InfiniteRunnerUp(t *testing.T) {
	res, err := SelectRoute([]domain.RouteCandidate{cand("A", math.Inf(1)), cand("B", 7)})
	require.NoError(t, err)
	assert.Equal(t, "B", res.Winner.StoresVisited()[0])
	assert.True(t, math.IsInf(res.Margin, 1))
}

func TestSelectRoute_Errors(t *testing.T) {
	_, err := SelectRoute(nil)
	assert.ErrorIs(t, err, domain.ErrNoStores)

	_, err = SelectRoute([]domain.RouteCandidate{cand("A", math.Inf(1)), cand("B", math.Inf(1))})
	require.ErrorIs(t, err, domain.ErrNoViableRoute)

	var nv *NoViableRouteError
	require.True(t, errors.As(err, &nv))
	assert.Len(t, nv.Candidates, 2)
}
