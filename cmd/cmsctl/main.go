package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/visacms/internal/admin"
	"github.com/bilgisen/visacms/internal/client"
	"github.com/bilgisen/visacms/internal/config"
	"github.com/bilgisen/visacms/internal/logger"
	"github.com/bilgisen/visacms/internal/models"
)

const usage = `Usage: cmsctl [flags] <command>

Commands:
  setup                               create the tables on the server
  upload <file>                       upload an image and print its URL
  news  list|show|add|update|delete   manage news articles
  visas list|show|add|update|delete   manage visa programs

Run "cmsctl news add -h" to see the fields of a command.

Flags:
`

func main() {
	os.Exit(run())
}

func run() int {
	var (
		apiURL  = flag.String("api", "", "API base URL (default $API_BASE_URL)")
		yes     = flag.Bool("yes", false, "do not ask before deleting")
		asJSON  = flag.Bool("json", false, "print records as JSON")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Load()
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if err := cfg.ValidateClient(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Level: level, Output: "stderr", Pretty: true}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log := logger.Component("cmsctl")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return 2
	}

	api := client.New(cfg.APIBaseURL, cfg.ClientTimeout)

	var confirm admin.Confirmer = stdinConfirmer{in: os.Stdin, out: os.Stderr}
	if *yes {
		confirm = admin.ConfirmFunc(func(context.Context, string) bool { return true })
	}
	out := printer{w: os.Stdout, json: *asJSON}

	var err error
	switch args[0] {
	case "setup":
		err = api.Setup(ctx)
		if err == nil {
			fmt.Println("Tables created")
		}
	case "upload":
		if len(args) != 2 {
			flag.Usage()
			return 2
		}
		var url string
		url, err = uploadFile(ctx, api, args[1])
		if err == nil {
			fmt.Println(url)
		}
	case "news":
		ctrl := admin.New[models.News]("News", api.News(), confirm, log)
		err = runCollection(ctx, ctrl, newNewsFields(api), out, args[1:])
	case "visas":
		ctrl := admin.New[models.Visa]("Visa", api.Visas(), confirm, log)
		err = runCollection(ctx, ctrl, newVisaFields(api), out, args[1:])
	default:
		flag.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, admin.ErrCancelled):
		fmt.Fprintln(os.Stderr, "Cancelled")
		return 1
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
