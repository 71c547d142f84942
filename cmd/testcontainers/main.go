package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/covematch/internal/testutil"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var withAuthorizer bool
	flag.BoolVar(&withAuthorizer, "authz", true, "also start an Authorizer")
	flag.Parse()

	usage := `
Run a covematch database (and Authorizer) in containers with the environment
variables from the .env file. Prints the DB_* and AUTHZ_URL values to use.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-authz=false]

ENV_FILE_PATH: path to the .env file

Environment:
  DB_TYPE       mariadb, mysql or postgres (default mariadb)
  DB_IMAGE      database image (default mariadb:11)
  AUTHZ_IMAGE   Authorizer image (default lakhansamani/authorizer:latest)

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	ctx := context.Background()
	var containers *testutil.TestContainers
	go func() {
		var err error
		containers, err = testutil.StartDatabase(ctx, nil, getEnv("DB_TYPE", "mariadb"), getEnv("DB_IMAGE", "mariadb:11"))
		if err != nil {
			log.Fatalf("Failed to start database container: %v\n", err)
		}
		if withAuthorizer {
			if err := containers.StartAuthorizer(ctx, nil, getEnv("AUTHZ_IMAGE", "lakhansamani/authorizer:latest")); err != nil {
				containers.Terminate(nil)
				log.Fatalf("Failed to start Authorizer container: %v\n", err)
			}
		}
		log.Printf("Containers ready, Ctrl-C to terminate\n")
	}()

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test containers...\n", sig)
	if containers != nil {
		containers.Terminate(nil)
	}
}
