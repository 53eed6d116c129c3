package commands

// OpenCmd implements the 'open' command.
type OpenCmd struct {
	Root string `help:"Documentation root containing the built pages (defaults to docs.root)"`
}

func (o *OpenCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	docsRoot := cfg.Docs.Root
	if o.Root != "" {
		docsRoot = o.Root
	}
	return openDocs(docsRoot)
}
