// Command ipwatchctl drives an ipwatch server from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

const usage = `usage: ipwatchctl [-server URL] [-actor ID] <command> [flags]

commands:
  create  -url URL -asset ID   create a monitoring job
  execute -id ID [-wait]       run a pending job
  show    -id ID               show a job and its logs
  stats                        job counts and risk summary
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, colorRed("error:"), err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	global := flag.NewFlagSet("ipwatchctl", flag.ContinueOnError)
	server := global.String("server", envOr("IPWATCH_URL", "http://localhost:8080"), "server base URL")
	actor := global.String("actor", envOr("IPWATCH_ACTOR", os.Getenv("USER")), "actor id sent as X-Actor-ID")
	timeout := global.Duration("timeout", 3*time.Minute, "request timeout")
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	c := newClient(*server, *actor, *timeout)
	ctx := context.Background()
	cmd, rest := global.Arg(0), global.Args()[1:]

	switch cmd {
	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		url := fs.String("url", "", "page to monitor")
		asset := fs.String("asset", "", "protected asset id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *url == "" || *asset == "" {
			return errors.New("create needs -url and -asset")
		}
		job, err := c.createJob(ctx, *url, *asset)
		if err != nil {
			return err
		}
		printJob(out, job)
		return nil

	case "execute":
		fs := flag.NewFlagSet("execute", flag.ContinueOnError)
		id := fs.String("id", "", "job id")
		wait := fs.Bool("wait", true, "run inline and print the assessment")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == "" {
			return errors.New("execute needs -id")
		}
		res, err := c.execute(ctx, *id, *wait)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintf(out, "job %s queued\n", colorCyan(*id))
			return nil
		}
		printExecution(out, *res)
		return nil

	case "show":
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		id := fs.String("id", "", "job id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == "" {
			return errors.New("show needs -id")
		}
		d, err := c.job(ctx, *id)
		if err != nil {
			return err
		}
		printDetail(out, d)
		return nil

	case "stats":
		s, err := c.stats(ctx)
		if err != nil {
			return err
		}
		printStats(out, s)
		return nil

	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
