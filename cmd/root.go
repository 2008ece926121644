// Package cmd implements the splash command-line interface: flag parsing
// and wiring into the kernel and its HTTP edges, in the same cobra/pflag
// style the teacher repo uses for its own CLI surface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dexie-space/splash/internal/config"
)

const version = "0.1.0"

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:     "splash",
	Short:   "A decentralized relay node for trade offers",
	Long:    "splash broadcasts and relays trade offers over a peer-to-peer gossip overlay.",
	Version: version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cfg)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringArrayVarP(&cfg.KnownPeers, "known-peer", "k", nil, "multiaddress of a peer to dial at startup (repeatable)")
	flags.StringArrayVarP(&cfg.ListenAddrs, "listen-address", "l", nil, "multiaddress to listen on (repeatable)")
	flags.StringVarP(&cfg.IdentityPath, "identity-file", "i", "", "path to a persisted identity key; ephemeral if unset")
	flags.BoolVarP(&cfg.Testnet, "testnet", "t", false, "use the testnet introducer DNS name")
	flags.StringVar(&cfg.OfferHookURL, "offer-hook", "", "URL to POST received offers to; logs to stdout if unset")
	flags.StringVar(&cfg.ListenOfferSubmission, "listen-offer-submission", "127.0.0.1:9190", "host:port for the offer-submission HTTP server")
	flags.StringVar(&cfg.ListenMetrics, "listen-metrics", "", "host:port for the Prometheus metrics server; disabled if unset")
	flags.BoolP("version", "V", false, "version for splash")

	rootCmd.SetVersionTemplate("splash {{.Version}}\n")
}

// Execute runs the root command; cobra.CheckErr prints any returned error
// and exits non-zero, matching spec §6's startup-fatal exit code contract.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
