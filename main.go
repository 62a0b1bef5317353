package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-authgate/apigate/internal/bootstrap"
	"github.com/go-authgate/apigate/internal/config"
	"github.com/go-authgate/apigate/internal/token"
	"github.com/go-authgate/apigate/internal/version"
)

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Check if command is provided
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Handle subcommands
	switch args[0] {
	case "server":
		runServer()
	case "token":
		runToken(args[1:])
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("Authentication gate for bearer and basic protected APIs")
	fmt.Println("\nCommands:")
	fmt.Println("  server              Start the API gateway")
	fmt.Println("  token [-ttl 1h] USER  Print a signed bearer token for USER (local testing)")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	cfg := config.Load()

	if err := bootstrap.Run(cfg); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runToken signs a token with the configured JWT_SECRET and JWT_ISSUER.
// There is no HTTP issuance endpoint; this exists for operators and tests.
func runToken(args []string) {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	ttl := fs.Duration("ttl", time.Hour, "Token lifetime")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Println("Usage: token [-ttl 1h] USERNAME")
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	signed, err := token.NewSigner(cfg.JWTSecret, cfg.JWTIssuer).Sign(fs.Arg(0), *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println(signed.TokenString)
	fmt.Fprintf(os.Stderr, "expires at %s\n", signed.ExpiresAt.Format(time.RFC3339))
}
