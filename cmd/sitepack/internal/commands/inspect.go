package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// InspectCmd prints the configuration a build would use without running it.
type InspectCmd struct {
	Format string `help:"Output format" default:"yaml" enum:"yaml,json"`
}

func (c *InspectCmd) Run(ctx context.Context, globals *Globals) error {
	return c.write(os.Stdout, globals)
}

func (c *InspectCmd) write(out io.Writer, globals *Globals) error {
	cfg, err := globals.assemble()
	if err != nil {
		return fmt.Errorf("failed to assemble build configuration: %w", err)
	}

	switch c.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
}
