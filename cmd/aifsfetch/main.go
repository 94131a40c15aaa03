package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	a := newApp()
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		a.close()
		os.Exit(1)
	}
}
