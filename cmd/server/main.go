package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ignite/influencer-roi/internal/api"
	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/repository/postgres"
	"github.com/ignite/influencer-roi/internal/storage"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	slash := strings.Index(rest, "/")
	if slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func main() {
	log.Println("Influencer ROI analytics server starting")

	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Pre-flight check: verify the target port is available
	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database persistence (optional)
	var repo api.DatasetRepository
	if cfg.Database.URL != "" {
		log.Printf("Connecting to PostgreSQL at ...@%s/...", extractHost(cfg.Database.URL))
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Printf("Warning: failed to open database: %v", err)
		} else {
			pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
			err = db.PingContext(pingCtx)
			pingCancel()
			if err != nil {
				log.Printf("Warning: database unreachable, continuing without it: %v", err)
				db.Close()
			} else {
				dsRepo := postgres.NewDatasetRepo(db)
				if err := dsRepo.EnsureSchema(ctx); err != nil {
					log.Fatalf("Failed to ensure database schema: %v", err)
				}
				repo = dsRepo
				defer db.Close()
				log.Println("PostgreSQL persistence enabled")
			}
		}
	} else {
		log.Println("No database configured; running without SQL persistence")
	}

	// Redis snapshot store (optional)
	var store api.SnapshotStore
	if cfg.Redis.Addr != "" {
		client, err := storage.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Printf("Warning: %v; continuing without snapshot store", err)
		} else {
			store = storage.NewSnapshotStore(client, 0)
			defer client.Close()
			log.Printf("Redis snapshot store enabled at %s", cfg.Redis.Addr)
		}
	} else {
		log.Println("No Redis configured; running without snapshot store")
	}

	handlers := api.NewHandlers(cfg.Analytics, cfg.Generator, store, repo, cfg.Data.Dir)
	handlers.Restore(ctx)

	server := api.NewServer(cfg.Server, handlers)

	go func() {
		addr := cfg.Server.Addr()
		log.Printf("API listening on http://%s", addr)
		if err := server.ListenAndServe(addr); err != nil && !strings.Contains(err.Error(), "Server closed") {
			log.Fatalf("Server error: %v", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
