package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docpolish/internal/config"
	"git.home.luguber.info/inful/docpolish/internal/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return errors.Wrap(err, errors.StageConfig, errors.CategoryConfig, "could not write configuration")
	}
	fmt.Println("Initialized. Adjust generator.command and docs.root, then run: docpolish build")
	return nil
}
