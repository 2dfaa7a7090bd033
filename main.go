package main

import (
	"flag"
	"log"
	"os"

	"github.com/civicwaste/swm-backend/cmd"
)

// Version is overridden at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run migrations")
	shouldRunServer := flag.Bool("server", false, "Run server")
	devTokenRole := flag.String("dev-token", "", "Print a development token for the given role (admin, manager, operator, viewer)")
	devTokenUsername := flag.String("dev-token-username", "", "Username carried by the development token")
	flag.Parse()

	if *devTokenRole != "" {
		err := cmd.RunIssueDevToken(os.Stdout, cmd.DevTokenRequest{Role: *devTokenRole, Username: *devTokenUsername})
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if !*shouldRunMigrations && !*shouldRunServer {
		flag.Usage()
		return
	}

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatal(err)
		}
	}

	if *shouldRunServer {
		if err := cmd.RunServer(cmd.CompiledConfig{Version: Version}); err != nil {
			log.Fatal(err)
		}
	}
}
