package commands

import (
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/docpolish/internal/docs"
	"git.home.luguber.info/inful/docpolish/internal/errors"
	"git.home.luguber.info/inful/docpolish/internal/highlight"
	"git.home.luguber.info/inful/docpolish/internal/verify"
)

// CheckCmd implements the 'check' command: a dry run that reports which
// pages a build would rewrite and verifies the would-be output, without
// touching any file.
type CheckCmd struct {
	Root  string `help:"Documentation root to check (defaults to docs.root)"`
	Quiet bool   `short:"q" help:"Only print the summary line"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	docsRoot := cfg.Docs.Root
	if c.Root != "" {
		docsRoot = c.Root
	}

	engine := highlight.NewEngine()
	classes := []string{highlight.ClassKeyword, highlight.ClassOperator}
	for _, extra := range cfg.Highlight.Extra {
		pass, passErr := highlight.NewExtraPass(extra.Name, extra.Pattern, extra.Class)
		if passErr != nil {
			return errors.Wrap(passErr, errors.StageConfig, errors.CategoryConfig, "invalid extra pass")
		}
		engine.Add(pass)
		classes = append(classes, extra.Class)
	}
	checker := verify.NewChecker(classes...)

	var pages, wouldChange, findings int
	visitErr := docs.NewDiscovery(docsRoot, cfg.Docs.Suffix).Visit(func(page docs.Page) error {
		pages++
		data, readErr := os.ReadFile(page.Path)
		if readErr != nil {
			return readErr
		}

		out, changed := engine.Apply(string(data))
		if changed {
			wouldChange++
			if !c.Quiet {
				fmt.Println("would rewrite:", page.RelPath)
			}
		}

		pageFindings, checkErr := checker.CheckReader(strings.NewReader(out), page.RelPath)
		if checkErr != nil {
			return checkErr
		}
		if !c.Quiet {
			for _, f := range pageFindings {
				fmt.Println(f.String())
			}
		}
		findings += len(pageFindings)
		return nil
	})
	if visitErr != nil {
		return errors.Wrap(visitErr, errors.StageWalk, errors.CategoryIO, "check aborted")
	}

	fmt.Printf("%d pages checked: %d would be rewritten, %d findings\n", pages, wouldChange, findings)
	return nil
}
