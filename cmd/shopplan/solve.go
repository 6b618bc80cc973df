package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"grocery-route-service/internal/adapters/pricing"
	"grocery-route-service/internal/adapters/routing"
	"grocery-route-service/internal/api/dto"
	"grocery-route-service/internal/domain"
	"grocery-route-service/internal/fixture"
	"grocery-route-service/internal/ports"
	"grocery-route-service/internal/services"
)

var (
	scenarioPath string
	debugDump    bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a scenario file and print the winning route as JSON",
	Long: `Reads a YAML scenario (home, hourly rate, ingredients, stores with prices
and optional explicit edges). Without edges, travel between stops is
estimated from straight-line distance.

Examples:
  shopplan solve --scenario data/scenarios/mission.yaml
  shopplan solve --scenario data/scenarios/mission.yaml --debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := fixture.Load(scenarioPath)
		if err != nil {
			return err
		}
		return runSolve(cmd.Context(), sc, cmd.OutOrStdout(), cmd.ErrOrStderr(), debugDump)
	},
}

func init() {
	solveCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "path to the scenario YAML file")
	solveCmd.Flags().BoolVar(&debugDump, "debug", false, "dump the full solver result instead of JSON")
	_ = solveCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(ctx context.Context, sc *fixture.Scenario, w, errw io.Writer, debug bool) error {
	res, graph, err := solveScenario(ctx, sc, pricing.NewFixtureSource(sc.PriceTable()), errw)
	if err != nil {
		return err
	}

	if debug {
		_, err := pretty.Fprintf(w, "%# v\n", res)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewOptimizeResponse(res, graph))
}

// solveScenario runs the solver on explicit edges when the scenario has
// them, and otherwise populates the graph from coordinates and prices.
// Population failures are written to errw as warnings.
func solveScenario(ctx context.Context, sc *fixture.Scenario, prices ports.PriceSource, errw io.Writer) (*domain.SolverResult, *services.ShoppingGraph, error) {
	var opts []services.Option
	if sc.MissingItemPenalty != nil {
		opts = append(opts, services.WithMissingItemPenalty(*sc.MissingItemPenalty))
	}

	if len(sc.Edges) > 0 {
		matrix, err := sc.PriceMatrix()
		if err != nil {
			return nil, nil, err
		}
		edges, err := sc.Segments()
		if err != nil {
			return nil, nil, err
		}
		res, err := services.Solve(sc.Request(), sc.DomainStores(), matrix, edges, opts...)
		return res, nil, err
	}

	graph, err := services.BuildShoppingGraph(
		ctx,
		sc.Request(),
		sc.DomainStores(),
		prices,
		routing.NewHaversineRouter(),
		services.GraphOptions{},
	)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range graph.Failures {
		fmt.Fprintf(errw, "warning: %v\n", f)
	}

	res, err := services.Solve(sc.Request(), graph.Stores, graph.Prices, graph.Edges, opts...)
	return res, graph, err
}
