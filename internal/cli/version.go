package cli

import "fmt"

// VersionCmd prints the build version
type VersionCmd struct{}

// Version is set at build time with -ldflags "-X trip-planner/internal/cli.Version=..."
var Version = "dev"

func (c *VersionCmd) Run(ctx *Context) error {
	fmt.Printf("planner %s\n", Version)
	return nil
}
