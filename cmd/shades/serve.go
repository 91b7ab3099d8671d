package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spetersoncode/shades/cmd/shades/ui"
	"github.com/spetersoncode/shades/proxy"
	"github.com/spf13/cobra"
)

func serveCmd(cfg *Config) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the image fetch proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = cfg.Port
			}

			server := &http.Server{
				Addr:        ":" + port,
				Handler:     newProxyRouter(cfg),
				ReadTimeout: cfg.ReadTimeout,
				IdleTimeout: cfg.IdleTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.InfoMsg("proxy listening on :%s", port))
			fmt.Fprint(out, ui.KeyValues("  ",
				ui.KV("proxy", "GET http://localhost:"+port+cfg.ProxyPath+"?url=..."),
				ui.KV("health", "GET http://localhost:"+port+"/health"),
			))

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}

			fmt.Fprintln(out, ui.SuccessMsg("server stopped"))
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (default: SHADES_PORT)")

	return cmd
}

// newProxyRouter builds the proxy handler from the configuration.
func newProxyRouter(cfg *Config) http.Handler {
	opts := []proxy.Option{
		proxy.WithLogger(slog.Default()),
		proxy.WithTimeout(cfg.FetchTimeout),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, proxy.WithUserAgent(cfg.UserAgent))
	}
	if len(cfg.AllowedHosts) > 0 {
		opts = append(opts, proxy.WithAllowedHosts(cfg.AllowedHosts...))
	}
	if len(cfg.BlockedHosts) > 0 {
		opts = append(opts, proxy.WithBlockedHosts(cfg.BlockedHosts...))
	}

	return proxy.NewRouter(proxy.NewHandler(opts...), proxy.WithPath(cfg.ProxyPath))
}
