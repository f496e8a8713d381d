package main

import (
	"github.com/ksyq12/certinstall/internal/cli"
	_ "github.com/ksyq12/certinstall/internal/transport" // Register transports
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
