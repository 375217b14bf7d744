package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/gitmate/internal/server"
)

func (a *app) addServeCommand(root *cobra.Command) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for the repository",
		Long: `Start the HTTP JSON API. Every endpoint maps to one repository operation:

  GET  /api/status            POST /api/init
  POST /api/add               POST /api/commit
  GET  /api/history?limit=N   GET  /api/branches
  POST /api/branch/create     POST /api/branch/switch
  POST /api/remote/setup      POST /api/push
  POST /api/pull              POST /api/backup

The server stops on Ctrl+C.

Examples:
  gitmate serve
  gitmate serve --addr 127.0.0.1:8080 -C ~/sites/portfolio`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = s.cfg.Server.Addr
			}

			srv := server.New(s.seq,
				server.WithLogger(s.logger),
				server.WithAddr(addr),
				server.WithTimeouts(s.cfg.Server.ReadTimeout, s.cfg.Server.WriteTimeout),
				server.WithHistoryLimit(s.cfg.History.Limit),
				server.WithDefaultIdentity(s.cfg.Identity.Name, s.cfg.Identity.Email),
			)
			s.out.Info("serving " + s.seq.Root() + " on " + srv.Addr())
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	root.AddCommand(cmd)
}
