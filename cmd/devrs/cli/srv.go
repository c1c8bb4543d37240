package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/devrs/devrs/internal/devrserr"
	"github.com/devrs/devrs/internal/srv"
)

var srvCmd = &cobra.Command{
	Use:   "srv [directory]",
	Short: "Serve a directory of static files over HTTP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := srv.DefaultArgs()
		sargs := defaults

		if len(args) == 1 {
			sargs.Directory = args[0]
		}
		if port, _ := cmd.Flags().GetUint16("port"); cmd.Flags().Changed("port") {
			sargs.Port = port
		}
		if host, _ := cmd.Flags().GetString("host"); cmd.Flags().Changed("host") {
			ip := net.ParseIP(host)
			if ip == nil {
				return devrserr.NewConfig("invalid --host address: " + host)
			}
			sargs.Host = ip
		}
		noCORS, _ := cmd.Flags().GetBool("no-cors")
		sargs.NoCORS = noCORS
		showHidden, _ := cmd.Flags().GetBool("show-hidden")
		sargs.ShowHidden = showHidden
		if index, _ := cmd.Flags().GetString("index"); cmd.Flags().Changed("index") {
			sargs.Index = index
		}

		cfg, err := srv.LoadAndMergeConfig(sargs, cmd.Flags().Changed("no-cors"), cmd.Flags().Changed("show-hidden"))
		if err != nil {
			return err
		}

		return srv.Run(rootContext(), cfg)
	},
}

func init() {
	defaults := srv.DefaultArgs()
	srvCmd.Flags().Uint16P("port", "p", defaults.Port, "port to listen on (falls forward if taken)")
	srvCmd.Flags().String("host", defaults.Host.String(), "address to bind")
	srvCmd.Flags().Bool("no-cors", false, "disable permissive CORS headers")
	srvCmd.Flags().Bool("show-hidden", false, "serve dotfiles instead of hiding them")
	srvCmd.Flags().StringP("index", "i", defaults.Index, "index file served for directory requests")

	rootCmd.AddCommand(srvCmd)
}
