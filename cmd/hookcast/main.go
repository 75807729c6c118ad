package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gimlet-io/hookcast/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("error:"), err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                 "hookcast",
		Version:              version.String(),
		Usage:                "relays GitHub webhooks to Discord and IRC channels",
		EnableBashCompletion: true,
		Action:               serve,
		Commands: []*cli.Command{
			&serveCmd,
			&signCmd,
		},
	}
}
