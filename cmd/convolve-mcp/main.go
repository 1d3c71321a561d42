package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-convolve-mcp/internal/config"
	"github.com/ironsheep/image-convolve-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-convolve-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Logging goes to stderr; stdout is for the MCP protocol.
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	log.WithFields(log.Fields{
		"version":        Version,
		"built":          BuildTime,
		"commit":         GitCommit,
		"default_border": cfg.DefaultBorder,
		"default_ksize":  cfg.DefaultKernelSize,
		"max_ksize":      cfg.MaxKernelSize,
	}).Debug("Convolve MCP Server starting")

	stopProfile := startProfile(cfg)

	srv := server.New(cfg)
	err = srv.Run()
	stopProfile()
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// startProfile starts the configured profiler and returns its stop function.
// log.Fatalf skips deferred calls, so the caller stops it explicitly.
func startProfile(cfg config.Config) func() {
	switch cfg.ProfileMode {
	case config.ProfileCPU:
		return profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.ProfilePath), profile.Quiet).Stop
	case config.ProfileMem:
		return profile.Start(profile.MemProfile, profile.ProfilePath(cfg.ProfilePath), profile.Quiet).Stop
	}
	return func() {}
}

func printHelp() {
	fmt.Println("image-convolve-mcp - MCP server for image convolution and Gaussian blur")
	fmt.Println()
	fmt.Println("Usage: image-convolve-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug          Log level (trace, debug, info, warn, error)\n", config.EnvLogLevel)
	fmt.Printf("  %s=extend    Border used when a call omits one (extend, mirror, wrap, none)\n", config.EnvDefaultBorder)
	fmt.Printf("  %s=5          Gaussian kernel size used when a call omits one (odd)\n", config.EnvDefaultKSize)
	fmt.Printf("  %s=99             Largest kernel width or height accepted\n", config.EnvMaxKSize)
	fmt.Printf("  %s=off             Write a cpu or mem profile on exit\n", config.EnvProfile)
	fmt.Printf("  %s=.          Directory for profile output\n", config.EnvProfilePath)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
