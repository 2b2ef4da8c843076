package main

import (
	"fmt"

	"github.com/spf13/cobra"

	dompermission "github.com/kailas-cloud/netusage/internal/domain/permission"
)

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Manage the usage-access grant",
	Long:  `Grant, revoke or inspect the stored usage-access authorization.`,
}

var permissionGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant usage access",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.grants.Grant(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dompermission.Granted)
		return nil
	},
}

var permissionRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke usage access",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.grants.Revoke(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dompermission.Denied)
		return nil
	},
}

var permissionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether usage access is granted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.grants.Granted(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dompermission.FromBool(ok))
		return nil
	},
}

func init() {
	permissionCmd.AddCommand(permissionGrantCmd)
	permissionCmd.AddCommand(permissionRevokeCmd)
	permissionCmd.AddCommand(permissionStatusCmd)
	rootCmd.AddCommand(permissionCmd)
}
