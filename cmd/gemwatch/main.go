// gemwatch polls the storefront and prints stock alerts as products run
// low. With credentials it authenticates and polls at the tighter
// privileged interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gemlight/internal/client/api"
	"gemlight/internal/client/monitor"
	"gemlight/internal/client/session"
	"gemlight/internal/client/store"
)

func main() {
	var (
		base     = flag.String("base", "http://localhost:8080", "storefront base URL")
		stateDir = flag.String("state", defaultStateDir(), "directory for session and store files")
		interval = flag.Duration("interval", 0, "poll interval (default 30s, 15s when logged in)")
		email    = flag.String("email", "", "login email (optional)")
		password = flag.String("password", "", "login password (optional)")
	)
	flag.Parse()

	if err := os.MkdirAll(*stateDir, 0700); err != nil {
		log.Fatalf("state dir: %v", err)
	}

	sessions := session.NewProvider(session.NewFileStorage(filepath.Join(*stateDir, "session.json")))
	st, err := store.Open(filepath.Join(*stateDir, "store.json"))
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	client := api.New(*base, sessions)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *email != "" {
		u, err := client.Login(ctx, *email, *password)
		if err != nil {
			log.Fatalf("login: %v", err)
		}
		log.Printf("logged in as %s (%s)", u.Name, u.Role)
	}

	every := *interval
	if every <= 0 {
		every = monitor.DefaultInterval
		if client.HasToken() {
			every = monitor.DefaultPrivilegedInterval
		}
	}

	mon := monitor.New(client,
		monitor.WithOnError(func(err error) {
			log.Printf("poll failed: %v", err)
		}),
		monitor.WithOnChange(func(alerts []monitor.Alert) {
			if len(alerts) == 0 {
				fmt.Println("stock back to normal, no active alerts")
				return
			}
			for _, a := range alerts {
				// Alerted products go into the recently-viewed trail so
				// the next session starts with what was running low.
				st.AddToRecentlyViewed(a.ProductID)
				fmt.Printf("[%s] %-28s stock=%d (threshold %d)\n",
					a.Severity, a.ProductTitle, a.CurrentStock, a.Threshold)
			}
		}),
	)

	log.Printf("watching %s every %s (session %s)", *base, every, sessions.SessionID())
	handle := mon.Start(ctx, every)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	cancel()
	done := make(chan struct{})
	go func() { handle.Stop(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}

	if err := st.Save(); err != nil {
		log.Printf("save store: %v", err)
	}

	s := mon.Stats()
	log.Printf("shutting down: %d active alerts (%d low, %d critical, %d out); %d products flagged this run or earlier",
		s.Total, s.Low, s.Critical, s.Out, len(st.RecentlyViewed()))
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gemwatch"
	}
	return filepath.Join(home, ".gemwatch")
}
