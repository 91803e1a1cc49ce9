package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"euclid-swap/config"
	"euclid-swap/pkg/types"
)

var routesCmd = &cobra.Command{
	Use:     "routes",
	Aliases: []string{"list-routes", "ls"},
	Short:   "List the supported swap routes",
	Long: `List the fixed swap routes, their destination chains, default amounts,
fallback gas limits and the hop ratios used for multi-hop routes.

Examples:
  euclid-swap routes
  euclid-swap routes --json`,
	Run: runListRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

type routeOutput struct {
	Target           string   `json:"target"`
	Route            []string `json:"route"`
	ChainUID         string   `json:"chain_uid"`
	DefaultAmountOut string   `json:"default_amount_out"`
	FallbackGasLimit uint64   `json:"fallback_gas_limit"`
}

func runListRoutes(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cfg := config.Get()

	var routes []routeOutput
	for _, r := range types.Routes() {
		routes = append(routes, routeOutput{
			Target:           r.Kind.String(),
			Route:            r.Tokens,
			ChainUID:         r.TargetChainUID,
			DefaultAmountOut: r.DefaultAmountOut,
			FallbackGasLimit: r.FallbackGasLimit,
		})
	}

	if jsonOutput {
		output := map[string]interface{}{
			"routes":     routes,
			"hop_ratios": cfg.HopRatios,
		}
		jsonData, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
		return
	}

	displayRoutes(routes, cfg.HopRatios)
}

func displayRoutes(routes []routeOutput, ratios map[string]string) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP ROUTES")
	fmt.Println(strings.Repeat("=", 70))

	for _, r := range routes {
		color.Cyan("\nETH to %s", r.Target)
		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("  Route:              %s\n", color.YellowString(strings.Join(r.Route, " -> ")))
		fmt.Printf("  Destination Chain:  %s\n", r.ChainUID)
		fmt.Printf("  Default Amount Out: %s\n", r.DefaultAmountOut)
		fmt.Printf("  Fallback Gas Limit: %d\n", r.FallbackGasLimit)
	}

	tokens := make([]string, 0, len(ratios))
	for token := range ratios {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	color.Cyan("\nHop ratios (multi-hop routes)")
	fmt.Println(strings.Repeat("-", 70))
	for _, token := range tokens {
		fmt.Printf("  %-8s x%s\n", color.YellowString(token), ratios[token])
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
