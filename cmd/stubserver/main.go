// The stubserver binary runs an in-memory auth backend for local development
// and demos. All state is lost on restart.
package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/dmitrijs2005/adminauth/internal/logging"
	"github.com/dmitrijs2005/adminauth/internal/stubserver"
)

func main() {

	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	srv := stubserver.New(logger)
	srv.AddAccount("admin-1", "admin@example.com", "ChangeMe123!")
	log.Printf("seeded account admin@example.com / ChangeMe123! (id admin-1)")

	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatalf("%v", err)
	}

}
