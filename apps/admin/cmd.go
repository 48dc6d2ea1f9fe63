package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/brainbuddy/portal/core"
	"github.com/brainbuddy/portal/core/backend"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	client *backend.Client
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME - obtain an API token (password prompted)")
	fmt.Fprintln(cli.out, "  link -token TOKEN -email EMAIL -class N - link a student profile")
	fmt.Fprintln(cli.out, "  plan -token TOKEN -subject SUBJECT - generate and print a study plan")
	fmt.Fprintln(cli.out, "  health - check the API's liveness")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "The account's username. The password will be prompted next.")

	linkCmd := flag.NewFlagSet("link", flag.ExitOnError)
	linkToken := linkCmd.String("token", "", "A bearer token from `login`.")
	linkEmail := linkCmd.String("email", "", "The student's email.")
	linkClass := linkCmd.Int("class", 0, "The student's grade level.")

	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	planToken := planCmd.String("token", "", "A bearer token from `login`.")
	planSubject := planCmd.String("subject", "", "The subject to plan for.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginUname, string(pwd))
	case "link":
		if err := linkCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *linkToken == "" || *linkEmail == "" || *linkClass == 0 {
			linkCmd.Usage()
			return errHelp
		}
		return cli.link(*linkToken, *linkEmail, *linkClass)
	case "plan":
		if err := planCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *planToken == "" || *planSubject == "" {
			planCmd.Usage()
			return errHelp
		}
		return cli.plan(*planToken, *planSubject)
	case "health":
		return cli.health()
	default:
		cli.printUsage()
		return errHelp
	}
}
