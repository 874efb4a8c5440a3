package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tluyben/phpfront/internal/lsp"
	"github.com/tluyben/phpfront/internal/parser"
)

const Version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version")
	showHelp := flag.Bool("help", false, "Show help")
	logFile := flag.String("log", "", "Log file path (disabled by default)")
	shortTags := flag.Bool("short-tags", false, "Enable <? short open tags")

	flag.Parse()

	if *showVersion {
		fmt.Printf("phpfront language server v%s\n", Version)
		os.Exit(0)
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	features := parser.Features{ShortOpenTags: *shortTags}
	server := lsp.NewServer(features, *logFile)

	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "LSP server error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("phpfront language server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  phpfrontls [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version     Show version")
	fmt.Println("  --help        Show help")
	fmt.Println("  --log <file>  Log file path")
	fmt.Println("  --short-tags  Enable <? short open tags")
	fmt.Println()
	fmt.Println("The server speaks LSP over stdio and publishes parse diagnostics.")
}
