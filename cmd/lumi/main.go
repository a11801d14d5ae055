package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/neurosphere-lab/lumi/internal/profile"
	"github.com/neurosphere-lab/lumi/server"
	"github.com/neurosphere-lab/lumi/store"
	"github.com/neurosphere-lab/lumi/store/db"
)

const (
	greetingBanner = `Lumi - customer support chatbot service`
)

var (
	version = "0.1.0"

	rootCmd = &cobra.Command{
		Use:   "lumi",
		Short: "Customer support chatbot with FAQ answering and appointment scheduling",
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile := &profile.Profile{
				Mode:     viper.GetString("mode"),
				Addr:     viper.GetString("addr"),
				Port:     viper.GetInt("port"),
				Data:     viper.GetString("data"),
				Driver:   viper.GetString("driver"),
				DSN:      viper.GetString("dsn"),
				Frontend: viper.GetString("frontend"),
				Version:  version,
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				slog.Error("invalid configuration", "error", err)
				os.Exit(1)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				cancel()
				slog.Error("failed to create db driver", "error", err)
				os.Exit(1)
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				cancel()
				slog.Error("failed to migrate database", "error", err)
				os.Exit(1)
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				cancel()
				slog.Error("failed to create server", "error", err)
				os.Exit(1)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				slog.Info("received signal, shutting down", "signal", sig.String())
				s.Shutdown(ctx)
				cancel()
			}()

			printGreetings(instanceProfile)

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return s.Start(gCtx)
			})
			if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("failed to start server", "error", err)
				cancel()
				os.Exit(1)
			}

			// Wait for shutdown to complete.
			<-ctx.Done()
		},
	}
)

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8080)
	viper.SetDefault("data", ".")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8080, "port of server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, can be "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("frontend", "", "directory of static frontend assets")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "frontend"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("lumi")
	viper.AutomaticEnv()
}

func printGreetings(p *profile.Profile) {
	fmt.Println(greetingBanner)
	fmt.Printf("version %s, mode %s, driver %s\n", p.Version, p.Mode, p.Driver)
	fmt.Printf("listening on %s:%d\n", p.Addr, p.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run command", "error", err)
		os.Exit(1)
	}
}
