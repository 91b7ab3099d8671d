package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spetersoncode/shades"
	"github.com/spetersoncode/shades/client"
	"github.com/spetersoncode/shades/cmd/shades/ui"
	"github.com/spetersoncode/shades/event"
	"github.com/spetersoncode/shades/model"
	"github.com/spetersoncode/shades/proxy"
	"github.com/spetersoncode/shades/workflow"
	"github.com/spf13/cobra"
)

var _ workflow.Fetcher = (*proxy.Client)(nil)

// defaultOutputName is the download name used when --out is not given.
const defaultOutputName = "deal-with-it"

type runOptions struct {
	file     string
	url      string
	prompt   string
	out      string
	retries  int
	provider string
	model    string
}

func runCmd(cfg *Config) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Add sunglasses to an image from a file or a URL",
		Example: `  shades run --file photo.jpg
  cat photo.png | shades run --file - --out shades.png
  shades run --url https://example.com/cat.png --prompt "make them gold" --retries 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.file == "") == (opts.url == "") {
				return errors.New("exactly one of --file or --url is required")
			}
			if opts.retries < 0 {
				return errors.New("--retries must not be negative")
			}
			if opts.provider != "" {
				cfg.Provider = opts.provider
			}
			if opts.model != "" {
				cfg.Model = opts.model
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runWorkflow(cmd.Context(), cmd, cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.file, "file", "", "Image file to transform (- reads stdin)")
	f.StringVar(&opts.url, "url", "", "Image URL to fetch through the proxy")
	f.StringVar(&opts.prompt, "prompt", "", "Additional instructions for the generation service")
	f.StringVarP(&opts.out, "out", "o", "", "Output path (default: deal-with-it.<ext>)")
	f.IntVar(&opts.retries, "retries", 0, "Retry a failed attempt up to N times")
	f.StringVar(&opts.provider, "provider", "", "Provider: google or openai (default: SHADES_PROVIDER)")
	f.StringVar(&opts.model, "model", "", "Model override (default: SHADES_MODEL)")

	return cmd
}

func runWorkflow(ctx context.Context, cmd *cobra.Command, cfg *Config, opts runOptions) error {
	key := cfg.APIKey()
	if key == "" {
		return fmt.Errorf("%s is required for %s provider", cfg.KeyEnv(), cfg.Provider)
	}

	stderr := cmd.ErrOrStderr()
	events := event.NewChannel()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printEvents(stderr, events)
	}()

	provider := shades.Provider(cfg.Provider)
	tr := client.New(client.Config{
		Provider: provider,
		Model:    model.Resolve(provider, cfg.Model),
		BaseURL:  cfg.APIBaseURL,
		Events:   events,
	})

	mode := workflow.InputFile
	var fetcher workflow.Fetcher
	if opts.url != "" {
		mode = workflow.InputURL
		endpoint, shutdown, err := proxyEndpoint(cfg)
		if err != nil {
			return err
		}
		defer shutdown()
		fetcher = proxy.NewClient(endpoint, proxy.WithClientLogger(slog.Default()))
	}

	orch := workflow.New(fetcher, tr,
		workflow.WithLogger(slog.Default()),
		workflow.WithEvents(events),
		workflow.WithAPIKey(key),
		workflow.WithInputMode(mode),
	)
	orch.SetExtraInstructions(opts.prompt)

	err := acquire(ctx, cmd.InOrStdin(), orch, opts)
	if err == nil {
		err = drive(ctx, stderr, orch, opts.retries)
	}

	var data []byte
	var mimeType string
	if err == nil {
		data, mimeType, _ = orch.Output()
	}
	orch.Close()
	close(events)
	<-printed

	if err != nil {
		return err
	}

	path := opts.out
	if path == "" {
		path = defaultOutputName + shades.ExtensionFor(mimeType)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	m := tr.Model()
	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMsg("saved %s", ui.Bold(path)))
	fmt.Fprint(cmd.OutOrStdout(), ui.KeyValues("  ",
		ui.KV("provider", string(tr.Provider())),
		ui.KV("model", m.String()),
		ui.KV("estimate", fmt.Sprintf("$%.3f", m.Pricing().Estimate())),
	))
	return nil
}

// acquire loads the source image from the selected input.
func acquire(ctx context.Context, stdin io.Reader, orch *workflow.Orchestrator, opts runOptions) error {
	if opts.url != "" {
		return orch.SubmitURL(ctx, opts.url)
	}

	data, mimeType, err := readSource(stdin, opts.file)
	if err != nil {
		return err
	}
	return orch.LoadLocalFile(ctx, data, mimeType)
}

// drive processes a loaded image and retries failed attempts until the
// workflow settles in done, or fails with retries exhausted.
func drive(ctx context.Context, w io.Writer, orch *workflow.Orchestrator, retries int) error {
	attempts := 0
	for {
		st := orch.Snapshot()
		switch st.Phase {
		case workflow.PhaseImageLoaded:
			if err := orch.Process(ctx); err != nil {
				return err
			}
			if orch.Phase() == workflow.PhaseImageLoaded {
				return errors.New("processing was not started")
			}

		case workflow.PhaseDone:
			return nil

		case workflow.PhaseError:
			if !st.Retryable() || attempts >= retries {
				return failureError(st.LastError)
			}
			attempts++
			fmt.Fprintln(w, ui.WarnMsg("%s, retrying (%d/%d)", st.LastError.Message, attempts, retries))
			if err := orch.Retry(ctx); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unexpected workflow phase %s", st.Phase)
		}
	}
}

func failureError(f *workflow.Failure) error {
	if f == nil {
		return errors.New("workflow failed")
	}
	if f.Err != nil {
		slog.Debug("workflow failed", "error", f.Err)
	}
	return errors.New(f.Message)
}

// readSource reads a local image. "-" reads stdin; its type is sniffed.
func readSource(stdin io.Reader, path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, shades.MediaType(http.DetectContentType(data)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, shades.MediaType(mimeType), nil
}

// proxyEndpoint returns the proxy URL for fetches. Without SHADES_PROXY_URL
// a proxy is started on a loopback port for the duration of the run.
func proxyEndpoint(cfg *Config) (string, func(), error) {
	if cfg.ProxyURL != "" {
		return strings.TrimSuffix(cfg.ProxyURL, "/") + cfg.ProxyPath, func() {}, nil
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("start proxy: %w", err)
	}
	server := &http.Server{
		Handler:     newProxyRouter(cfg),
		ReadTimeout: cfg.ReadTimeout,
	}
	go serveProxy(server, ln)
	slog.Debug("in-process proxy started", "addr", ln.Addr().String())

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Warn("in-process proxy shutdown", "error", err)
		}
	}
	return "http://" + ln.Addr().String() + cfg.ProxyPath, shutdown, nil
}

// serveProxy serves on ln until the server is shut down.
func serveProxy(server *http.Server, ln net.Listener) {
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("in-process proxy failed", "error", err)
	}
}

// printEvents renders workflow progress until events is closed.
func printEvents(w io.Writer, events <-chan event.Event) {
	for e := range events {
		switch e.Type {
		case event.PhaseChanged:
			switch workflow.Phase(e.To) {
			case workflow.PhaseFetchingURL:
				fmt.Fprintln(w, ui.InfoMsg("fetching image"))
			case workflow.PhaseProcessing:
				fmt.Fprintln(w, ui.InfoMsg("adding sunglasses"))
			default:
				fmt.Fprintln(w, ui.Muted(e.From+" -> "+e.To))
			}
		case event.RequestComplete:
			fmt.Fprintln(w, ui.Muted(fmt.Sprintf("%s %s responded in %s", e.Provider, e.Model, e.Duration.Round(time.Millisecond))))
		case event.OperationRejected, event.OperationStale:
			slog.Debug("operation dropped", "type", e.Type, "operation", e.Operation, "message", e.Message)
		}
	}
}
