package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/fixture"
)

func solveFile(t *testing.T, path string, debug bool) string {
	t.Helper()

	sc, err := fixture.Load(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	var errBuf bytes.Buffer
	require.NoError(t, runSolve(context.Background(), sc, &buf, &errBuf, debug))
	assert.Empty(t, errBuf.String())
	return buf.String()
}

func TestRunSolve_ExplicitEdges(t *testing.T) {
	var out struct {
		Winner struct {
			Route []string `json:"route"`
			Total float64  `json:"total"`
		} `json:"winner"`
		TotalRoutesAnalyzed int      `json:"total_routes_analyzed"`
		Savings             *float64 `json:"savings_vs_second_best"`
	}
	require.NoError(t, json.Unmarshal([]byte(solveFile(t, "testdata/two_stores.yaml", false)), &out))

	assert.Equal(t, []string{"HOME", "Store1", "HOME"}, out.Winner.Route)
	assert.Equal(t, 19.0, out.Winner.Total)
	assert.Equal(t, 4, out.TotalRoutesAnalyzed)
	require.NotNil(t, out.Savings)
	assert.Equal(t, 4.0, *out.Savings)
}

func TestRunSolve_FromCoordinates(t *testing.T) {
	var out struct {
		Winner struct {
			Route []string `json:"route"`
		} `json:"winner"`
		TotalRoutesAnalyzed int `json:"total_routes_analyzed"`
	}
	require.NoError(t, json.Unmarshal([]byte(solveFile(t, "testdata/coordinates.yaml", false)), &out))

	assert.Equal(t, []string{"HOME", "Near", "HOME"}, out.Winner.Route)
	assert.Equal(t, 4, out.TotalRoutesAnalyzed)
}

func TestRunSolve_Debug(t *testing.T) {
	out := solveFile(t, "testdata/two_stores.yaml", true)
	assert.Contains(t, out, "Winner")
	assert.Contains(t, out, "Store1")
}

type downPrices struct{}

func (downPrices) StorePrices(context.Context, domain.Store, []string) (map[string]float64, error) {
	return nil, errors.New("price feed down")
}

func TestSolveScenario_WarnsOnPopulationFailures(t *testing.T) {
	sc, err := fixture.Load("testdata/coordinates.yaml")
	require.NoError(t, err)

	var errBuf bytes.Buffer
	res, graph, err := solveScenario(context.Background(), sc, downPrices{}, &errBuf)
	require.NoError(t, err)

	assert.Len(t, graph.Failures, 2)
	assert.Contains(t, errBuf.String(), "warning: prices Near: price feed down")
	assert.Contains(t, errBuf.String(), "warning: prices Far: price feed down")
	// Every item falls back to the penalty, so the nearest store still wins.
	assert.Equal(t, []string{"HOME", "Near", "HOME"}, res.Winner.StopNames())
	assert.Equal(t, 2, res.Winner.MissingItems)
}
