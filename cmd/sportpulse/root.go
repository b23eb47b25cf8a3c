package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sportpulse/pkg/client"
	"sportpulse/pkg/client/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultAPI = "http://localhost:8375/api"

// app carries the settings and the lazily built SDK for one invocation.
type app struct {
	v      *viper.Viper
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("SPORTPULSE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault("api", defaultAPI)
	a.v.SetDefault("state-dir", defaultStateDir())
	a.v.SetDefault("timeout", 15*time.Second)

	root := &cobra.Command{
		Use:           "sportpulse",
		Short:         "SportPulse terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("api", defaultAPI, "API base URL (SPORTPULSE_API)")
	flags.String("state-dir", defaultStateDir(), "where the session is kept (SPORTPULSE_STATE_DIR)")
	flags.Duration("timeout", 15*time.Second, "per-request timeout")
	flags.Bool("raw-token", false, "send the token without the Bearer prefix")
	flags.BoolP("verbose", "v", false, "log requests to stderr")
	for _, name := range []string{"api", "state-dir", "timeout", "raw-token", "verbose"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.meCmd(),
		a.roleCmd(),
		a.profileCmd(),
		a.postsCmd(),
		a.commentsCmd(),
	)
	return root
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sportpulse"
	}
	return filepath.Join(dir, "sportpulse")
}

// sdk builds the client on first use so flag parsing has already happened.
func (a *app) sdk() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	logger := slog.New(slog.DiscardHandler)
	if a.v.GetBool("verbose") {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	mode := api.AuthBearer
	if a.v.GetBool("raw-token") {
		mode = api.AuthRaw
	}

	c, err := client.New(client.Config{
		BaseURL:  a.v.GetString("api"),
		StateDir: a.v.GetString("state-dir"),
		AuthMode: mode,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.v.GetDuration("timeout"))
}
