package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/boolcalc/pkg/api"
	grpcapi "github.com/lemonberrylabs/boolcalc/pkg/api/grpc"
	"github.com/lemonberrylabs/boolcalc/pkg/config"
	"github.com/lemonberrylabs/boolcalc/pkg/store"
	"github.com/lemonberrylabs/boolcalc/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, gRPC and web UI servers",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "HTTP server port (default 8787, env PORT)")
	cmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8788, env GRPC_PORT)")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	cmd.Flags().Int("history-size", 0, "Evaluations kept in memory (default 1000, env HISTORY_SIZE)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig(cmd)
	if err != nil {
		return err
	}

	server, grpcServer := newServers(cfg)
	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr())
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down boolcalc...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("boolcalc %s listening on %s (history=%d, max-length=%d)", version, cfg.Addr(), cfg.HistorySize, cfg.MaxExpressionLength)
	return server.Listen(cfg.Addr())
}

// serveConfig loads the configuration and applies the serve flags on top.
func serveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.GRPCPort = v
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.Host = v
	}
	if v, _ := cmd.Flags().GetInt("history-size"); v != 0 {
		cfg.HistorySize = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newServers builds the HTTP server, with the web UI mounted, and the gRPC
// server over one shared history.
func newServers(cfg *config.Config) (*api.Server, *grpcapi.Server) {
	s := store.New(cfg.HistorySize)
	server := api.New(s, cfg.MaxExpressionLength)

	// Register the web UI (non-fatal if template parsing fails)
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Warning: web UI disabled due to template error: %v", r)
			}
		}()
		ui := web.New(s, cfg.MaxExpressionLength)
		ui.Register(server.App())
	}()

	return server, grpcapi.New(s, cfg.MaxExpressionLength)
}
