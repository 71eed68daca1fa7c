package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	switch args[0] {
	case "help", "-h", "--help":
		printUsage()
		return nil
	case "init":
		return cmdInit(args[1:])
	case "validate":
		return cmdValidate(args[1:])
	case "simulate":
		return cmdSimulate(args[1:])
	case "ingest":
		return cmdIngest(args[1:])
	case "provider":
		return cmdProvider(args[1:])
	case "usage":
		return cmdUsage(args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Println("wingman - real-time call suggestion engine")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  wingman init [--workspace DIR]")
	fmt.Println("  wingman validate [--workspace DIR]")
	fmt.Println("  wingman simulate [--workspace DIR] [--speaker NAME] [--summary] [--debug] <transcript.jsonl>")
	fmt.Println("  wingman ingest [--workspace DIR] [--source ID] [--debug] <chunks.jsonl>")
	fmt.Println("  wingman provider list")
	fmt.Println("  wingman usage [--workspace DIR]")
}
