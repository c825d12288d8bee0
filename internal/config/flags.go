package config

import (
	"flag"
	"os"
)

// parses CLI flags for the ingester
func ParseIngestFlags() Flags {
	fs := flag.NewFlagSet("ingester", flag.ExitOnError)
	path := fs.String("path", defaultInputDir, "path to a document file or directory of documents")
	clearFlag := fs.Bool("clear", false, "reset the vector collection before ingesting")
	fs.Parse(os.Args[1:]) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{Path: *path, Clear: *clearFlag}
}
