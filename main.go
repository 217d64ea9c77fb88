package main

import (
	"flag"
	"log"

	"github.com/caseproof/caseproof-backend/cmd"
)

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "run the database migrations")
	shouldRunServer := flag.Bool("server", false, "run the API server")
	shouldRunWorker := flag.Bool("worker", false, "run the task queue worker")
	flag.Parse()

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if *shouldRunServer {
		if err := cmd.RunServer(); err != nil {
			log.Fatalf("server exited with error: %v", err)
		}
	}
	if *shouldRunWorker {
		if err := cmd.RunTaskQueue(); err != nil {
			log.Fatalf("task queue worker exited with error: %v", err)
		}
	}
}
