// Command seed provisions a user account. Users are created here, not
// through the HTTP surface:
//
//	seed -d <dsn> -n alice -w "correct horse battery staple"
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/filevault/internal/flagx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	var username, password string

	args := flagx.FilterArgs(os.Args[1:], []string{"-n", "-w"})
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	fs.StringVar(&username, "n", "", "username to create")
	fs.StringVar(&password, "w", "", "password for the new user")
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}

	if username == "" || password == "" {
		log.Fatal("both -n <username> and -w <password> are required")
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	us := services.NewUserService(db, rm, cfg, logger)

	user, err := us.Register(ctx, username, password)
	if err != nil {
		log.Fatalf("error creating user: %v", err)
	}

	fmt.Printf("created user %s with id %s\n", user.UserName, user.ID)
}
