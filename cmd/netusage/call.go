package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/netusage/internal/domain/channel"
	chiTransport "github.com/kailas-cloud/netusage/internal/transport/chi"
)

var callArgs []string

var callCmd = &cobra.Command{
	Use:   "call [flags] METHOD",
	Short: "Invoke a channel method in-process",
	Long:  `Invoke a channel method without the HTTP server and print the response envelope as JSON.`,
	Example: `  netusage call getNetworkStats
  netusage --config config/prod.yaml call checkUsageStatsPermission`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringArrayVar(&callArgs, "arg", nil, "Call argument as key=value (repeatable)")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	arguments, err := parseCallArgs(callArgs)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.query.Handle(cmd.Context(), channel.NewRequest(args[0], arguments))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(chiTransport.Envelope(resp))
}

func parseCallArgs(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --arg %q: want key=value", kv)
		}
		out[k] = v
	}
	return out, nil
}
