// Command sbprun runs the OpenSBP interpreter against a ShopBot controller
// and optionally exposes its status/control surface over HTTP, in the same
// run/conf/mkconf/version/help subcommand shape as cmd/multiserver.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"goji.io"

	"github.com/tjkluska/fabmo/config"
	"github.com/tjkluska/fabmo/driver"
	"github.com/tjkluska/fabmo/httpstatus"
	"github.com/tjkluska/fabmo/sbp"
)

// Version is injected via -ldflags at build time, following
// cmd/multiserver.Version's convention.
var Version = "dev"

const defaultConfigFile = "sbprun.yml"

func root() {
	fmt.Println(`sbprun runs OpenSBP part programs against a ShopBot-class motion
controller, and can expose an HTTP status/control surface for remote clients.

Usage:
	sbprun <command> [args]

Commands:
	run     run a part program (-file=path.sbp), with an optional -http=addr status surface
	conf    print the active configuration as YAML
	mkconf  write the default configuration to sbprun.yml
	version print the build version
	help    print configuration help`)
}

func help() {
	fmt.Println(`sbprun is configured via a YAML file (default sbprun.yml in the working
directory). Keys follow the driver/settings split documented in mkconf's output.
When no file is present, compiled-in defaults are used.`)
}

func mkconf() {
	if err := config.Save(defaultConfigFile, config.DefaultConfig()); err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c, err := config.Load(defaultConfigFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := config.Write(os.Stdout, c); err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("sbprun version %v\n", Version)
}

func run(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	file := fs.String("file", "", "path to an OpenSBP part program")
	httpAddr := fs.String("http", "", "if set, listen for status/control requests at this address")
	fs.Parse(args)

	c, err := config.Load(defaultConfigFile)
	if err != nil {
		log.Fatal(err)
	}

	d := driver.NewShopBot(c.ToDriverConfig())
	defer d.Close()

	if *httpAddr != "" {
		svc := httpstatus.NewService(d)
		mux := goji.NewMux()
		svc.Routes().Bind(mux)
		log.Println("status surface listening at", *httpAddr)
		go func() {
			log.Fatal(http.ListenAndServe(*httpAddr, mux))
		}()
	}

	if *file == "" {
		log.Fatal("run requires -file")
	}
	src, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal(err)
	}
	prog, err := sbp.ParseProgram(string(src))
	if err != nil {
		log.Fatal(err)
	}
	analysis, err := sbp.Analyze(&prog)
	if err != nil {
		log.Fatal(err)
	}
	settings := c.Settings
	engine := sbp.NewEngine(&prog, analysis, d, &settings)
	if err := engine.Run(); err != nil {
		log.Fatal(err)
	}
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	cmd := strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "version":
		pversion()
	case "run":
		run(args[2:])
	default:
		log.Fatal("unknown command")
	}
}
