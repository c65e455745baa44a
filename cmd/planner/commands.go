package main

import (
	"context"
	"encoding/json"
	"fmt"
	"fuel-route-service/internal/adapters/graphfile"
	"fuel-route-service/internal/adapters/textio"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/graph"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/services"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	graphPath string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "planner",
		Short:        "Plan fuel-aware delivery routes on a road network",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.graphPath, "graph", config.Get("GRAPH_PATH", ""), "YAML graph descriptor (default: built-in 50-node city)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", config.Get("LOG_LEVEL", "warn"), "log level: debug, info, warn, error")

	root.AddCommand(newPlanCmd(opts), newPathCmd(opts), newGraphCmd(opts))
	return root
}

func (o *rootOptions) planner(ctx context.Context, cmd *cobra.Command) (*services.Planner, error) {
	desc, err := (&graphfile.FileGraphProvider{Path: o.graphPath}).LoadGraph(ctx)
	if err != nil {
		return nil, err
	}
	g, err := graph.New(desc)
	if err != nil {
		return nil, err
	}
	logger := obs.NewLogger(cmd.ErrOrStderr(), o.logLevel, "text")
	return services.NewPlanner(ctx, g, services.WithLogger(logger))
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	var (
		tank     int
		input    string
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Read a delivery list and print the route",
		Long: `Read a delivery list and print the planned route.

Input format (whitespace separated):
  n
  destination weight    (n lines)
  capacity

Example:
  printf '1\n10 5\n10\n' | planner plan --tank 250`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("plan: open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			list, err := textio.ReadDeliveryList(in)
			if err != nil {
				return err
			}

			p, err := root.planner(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			plan, err := p.Plan(cmd.Context(), services.PlanDeliveriesRequest{
				Requests:      list.Requests,
				TankCapacity:  tank,
				CargoCapacity: list.CargoCapacity,
			})
			if err != nil {
				return err
			}

			if jsonMode {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dto.NewPlanResponse(plan))
			}
			return textio.WriteReport(cmd.OutOrStdout(), plan)
		},
	}

	defaultTank, err := config.GetInt("TANK_CAPACITY", 250)
	if err != nil {
		defaultTank = 250
	}
	cmd.Flags().IntVar(&tank, "tank", defaultTank, "fuel tank capacity in distance units")
	cmd.Flags().StringVarP(&input, "input", "i", "", "read the delivery list from a file instead of stdin")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "print the plan as JSON")
	return cmd
}

func newPathCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Print the shortest path between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("path: FROM %q is not a node id", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("path: TO %q is not a node id", args[1])
			}

			p, err := root.planner(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			path, err := p.Path(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			parts := make([]string, len(path.Nodes))
			for i, n := range path.Nodes {
				parts[i] = strconv.Itoa(n)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (distance %d)\n", strings.Join(parts, " -> "), path.Distance)
			return err
		},
	}
}

func newGraphCmd(root *rootOptions) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Describe the road network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := (&graphfile.FileGraphProvider{Path: root.graphPath}).LoadGraph(cmd.Context())
			if err != nil {
				return err
			}

			if dump {
				data, err := graphfile.Encode(desc)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			g, err := graph.New(desc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nodes: %d\n", g.NodeCount())
			fmt.Fprintf(out, "edges: %d\n", g.EdgeCount())
			fmt.Fprintf(out, "depots: %v\n", g.Depots())
			fmt.Fprintf(out, "gas stations: %v\n", g.GasStations())
			fmt.Fprintf(out, "fingerprint: %s\n", g.Fingerprint())
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "yaml", false, "print the descriptor as YAML")
	return cmd
}
