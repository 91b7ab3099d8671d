// Command shades puts "Deal With It" sunglasses on images.
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	SHADES_PORT          - Proxy server port (default: 8080)
//	SHADES_LOG_LEVEL     - debug, info, warn or error (default: info)
//	SHADES_PROXY_PATH    - Proxy mount path (default: /api/image-proxy)
//	SHADES_PROXY_URL     - Proxy endpoint used by run (default: in-process proxy)
//	SHADES_PROVIDER      - google or openai (default: google)
//	SHADES_MODEL         - Model override (optional, uses provider default)
//	SHADES_API_BASE_URL  - Generation API endpoint override (optional)
//	SHADES_USER_AGENT    - User-Agent for outbound fetches
//	SHADES_FETCH_TIMEOUT - Outbound fetch timeout (default: 30s)
//	SHADES_ALLOWED_HOSTS - Comma-separated hosts the proxy may fetch from
//	SHADES_BLOCKED_HOSTS - Comma-separated hosts the proxy refuses
//	GEMINI_API_KEY       - Google API key (GOOGLE_API_KEY also accepted)
//	OPENAI_API_KEY       - OpenAI API key
//
// Usage:
//
//	shades serve
//	shades run --file photo.jpg --prompt "make them gold"
//	shades run --url https://example.com/cat.png --out cat-shades.png
package main

import (
	"fmt"
	"os"

	"github.com/spetersoncode/shades/cmd/shades/ui"
	"github.com/spetersoncode/shades/internal/logging"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorMsg("%v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	cfg := &Config{}

	root := &cobra.Command{
		Use:           "shades",
		Short:         "Deal With It sunglasses for any image",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			*cfg = *loaded

			level := cfg.LogLevel
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(serveCmd(cfg))
	root.AddCommand(runCmd(cfg))
	root.AddCommand(versionCmd())

	return root
}
