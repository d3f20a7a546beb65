package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/pkg/client"
)

type cli struct {
	baseURL     string
	sessionPath string
	outFormat   string
	timeout     time.Duration
	verbose     bool

	api     *client.Client
	session *client.Session
	out     io.Writer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{
		baseURL:   envOr("COACHCTL_API_URL", "http://localhost:5001"),
		outFormat: envOr("COACHCTL_OUT", "text"),
		timeout:   10 * time.Second,
	}

	root := &cobra.Command{
		Use:           "coachctl",
		Short:         "Command line client for the coaching service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.baseURL, "api-url", c.baseURL, "Service base URL (env COACHCTL_API_URL)")
	root.PersistentFlags().StringVar(&c.sessionPath, "session-file", envOr("COACHCTL_SESSION_FILE", ""), "Session file (default ~/.config/coachctl/session.yaml)")
	root.PersistentFlags().StringVar(&c.outFormat, "out", c.outFormat, "Output format: json|text")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", c.timeout, "HTTP timeout")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log session activity to stderr")

	root.AddCommand(
		c.sendOTPCmd(),
		c.verifyOTPCmd(),
		c.registerCmd(),
		c.loginCmd(),
		c.loginPhoneCmd(),
		c.resetPasswordCmd(),
		c.whoamiCmd(),
		c.coursesCmd(),
		c.materialsCmd(),
		c.checkoutCmd(),
		c.logoutCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	switch c.outFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid --out %q: use json or text", c.outFormat)
	}

	path := c.sessionPath
	if path == "" {
		p, err := client.DefaultTokenPath()
		if err != nil {
			return fmt.Errorf("resolve session file: %w", err)
		}
		path = p
	}

	logger := zap.NewNop()
	if c.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
	}

	c.out = cmd.OutOrStdout()
	c.api = client.New(c.baseURL, client.WithHTTPClient(&http.Client{Timeout: c.timeout}))
	c.session = client.NewSession(c.api, client.NewFileTokenStore(path), logger)
	return nil
}

// print writes v as indented JSON, or runs text when the output format is text.
func (c *cli) print(v any, text func(w io.Writer)) error {
	if c.outFormat == "json" {
		p, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, string(p))
		return err
	}
	text(c.out)
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
