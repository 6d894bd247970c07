// Command jtlogcat drives and inspects a jtlog tree logger from the
// shell: initialize it, feed it records, force a dump or rotation, and
// pretty-print whatever JSON tree results.
package main

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/op/go-logging"
	"github.com/urfave/cli"

	"github.com/opencoff/go-jtlog"
)

var currentVersion = semver.MustParse("0.1.0")

func parseLevel(s string) (jtlog.Severity, error) {
	switch s {
	case "critical":
		return jtlog.Critical, nil
	case "error":
		return jtlog.Error, nil
	case "warn":
		return jtlog.Warn, nil
	case "info":
		return jtlog.Info, nil
	case "debug":
		return jtlog.Debug, nil
	default:
		return 0, fmt.Errorf("unknown level %q (want critical|error|warn|info|debug)", s)
	}
}

func initCommand(c *cli.Context) error {
	level, err := parseLevel(c.String("level"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	path := c.Args().First()
	if path == "" {
		return cli.NewExitError("jtlogcat init: missing primary path", 1)
	}
	jtlog.Init(level, path)
	log.Infof("initialized at %s threshold, primary path %s", level, path)
	return nil
}

func logCommand(c *cli.Context) error {
	level, err := parseLevel(c.String("level"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	node := c.String("node")
	msg := c.Args().First()
	if msg == "" {
		return cli.NewExitError("jtlogcat log: missing message", 1)
	}
	if node != "" {
		jtlog.Log(level, "%1%s", node, msg)
	} else {
		jtlog.Log(level, "%s", msg)
	}
	return nil
}

func dumpCommand(c *cli.Context) error {
	jtlog.Dump()
	log.Info("dumped current tree")
	return nil
}

func rotateCommand(c *cli.Context) error {
	jtlog.Rotate()
	log.Info("rotation complete")
	return nil
}

func thresholdCommand(c *cli.Context) error {
	level, err := parseLevel(c.Args().First())
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	jtlog.SetThreshold(level)
	log.Infof("threshold set to %s", level)
	return nil
}

func catCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.NewExitError("jtlogcat cat: missing path", 1)
	}
	useColor := !c.Bool("no-color") && colorEnabled()
	if err := catFile(stdout(), path, useColor); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func stressCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.NewExitError("jtlogcat stress: missing primary path", 1)
	}
	jtlog.Init(jtlog.Info, path)
	defer jtlog.Destroy()

	n := c.Int("goroutines")
	calls := c.Int("calls")
	if n <= 0 {
		n = 50
	}
	if calls <= 0 {
		calls = 100
	}
	ids := stress(n, calls)
	log.Infof("stress: %d goroutines x %d calls = %d records across %d identities", n, calls, n*calls, len(ids))
	return nil
}

func main() {
	setupLogging(logging.INFO)

	app := cli.NewApp()
	app.Name = "jtlogcat"
	app.Usage = "drive and inspect a jtlog hierarchical JSON tree logger"
	app.Version = currentVersion.String()
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level, l",
			Value: "info",
			Usage: "severity threshold: critical|error|warn|info|debug",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "init",
			Usage:     "initialize the process-wide logger against a primary path",
			ArgsUsage: "<primary-path>",
			Flags:     app.Flags,
			Action:    initCommand,
		},
		{
			Name:      "log",
			Usage:     "emit a single record",
			ArgsUsage: "<message>",
			Flags: append(app.Flags, cli.StringFlag{
				Name:  "node, n",
				Usage: "dot-free node name to descend into before logging",
			}),
			Action: logCommand,
		},
		{
			Name:   "dump",
			Usage:  "serialize the current tree to the primary path",
			Action: dumpCommand,
		},
		{
			Name:   "rotate",
			Usage:  "force an explicit rotation",
			Action: rotateCommand,
		},
		{
			Name:      "threshold",
			Usage:     "change the severity threshold",
			ArgsUsage: "critical|error|warn|info|debug",
			Action:    thresholdCommand,
		},
		{
			Name:      "cat",
			Usage:     "pretty-print a jtlog JSON tree file",
			ArgsUsage: "<path>",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "no-color", Usage: "disable colorized level output"},
			},
			Action: catCommand,
		},
		{
			Name:      "stress",
			Usage:     "init, hammer with concurrent goroutines, and report",
			ArgsUsage: "<primary-path>",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "goroutines, g", Value: 50},
				cli.IntFlag{Name: "calls, c", Value: 100},
			},
			Action: stressCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
