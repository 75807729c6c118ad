package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gimlet-io/hookcast/pkg/signature"
	"github.com/urfave/cli/v2"
)

var signCmd = cli.Command{
	Name:      "sign",
	Usage:     "Prints the signature header GitHub would send with a webhook body",
	ArgsUsage: "FILE|-",
	UsageText: `hookcast sign \
     --secret It's-a-Secret \
     --algorithm sha256 \
     push.json`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "secret",
			Usage:    "webhook secret, GITHUB_WEBHOOK_SECRET environment variable alternatively",
			EnvVars:  []string{"GITHUB_WEBHOOK_SECRET"},
			Required: true,
		},
		&cli.StringFlag{
			Name:  "algorithm",
			Usage: "sha1 or sha256",
			Value: signature.AlgorithmSHA256,
		},
	},
	Action: sign,
}

func sign(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("a body file is expected, use - to read stdin")
	}

	var body []byte
	var err error
	if path := c.Args().First(); path == "-" {
		body, err = io.ReadAll(c.App.Reader)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("cannot read body: %s", err)
	}

	algorithm := c.String("algorithm")
	header, err := signature.Sign(body, algorithm, c.String("secret"))
	if err != nil {
		return err
	}

	name := signature.Header
	if strings.EqualFold(algorithm, signature.AlgorithmSHA256) {
		name = signature.Header256
	}
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Fprintf(c.App.Writer, "%s %s\n", gray(name+":"), header)
	return nil
}
