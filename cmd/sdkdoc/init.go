package main

import (
	"fmt"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/fs"
	sdkyaml "github.com/fwojciec/sdkdoc/yaml"
)

// Run executes the init command.
func (c *InitCmd) Run(deps *Dependencies) error {
	existing, err := deps.Store.Load(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}
	if len(existing) > 0 && !c.Force {
		return deps.fail(sdkdoc.Errorf(sdkdoc.ECONFLICT,
			"store already holds %d fingerprints; use --force to reset it", len(existing)))
	}

	if err := deps.Store.Initialize(deps.Ctx); err != nil {
		return deps.fail(err)
	}
	fmt.Fprintln(deps.Stdout, "Initialized empty fingerprint store")

	if c.WriteConfig != "" {
		data, err := sdkyaml.Marshal(deps.Config)
		if err != nil {
			return deps.fail(err)
		}
		if err := fs.WriteFileAtomic(c.WriteConfig, data, 0o644); err != nil {
			return deps.fail(err)
		}
		fmt.Fprintf(deps.Stdout, "Wrote config to %s\n", c.WriteConfig)
	}

	return nil
}
