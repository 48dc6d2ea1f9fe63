package main

import (
	"context"
	"fmt"

	"github.com/brainbuddy/portal/core/normalize"
)

func (cli *commandLine) login(uname, pwd string) error {
	ctx := context.Background()
	tok, err := cli.client.ObtainToken(ctx, uname, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, tok.AccessToken)
	return nil
}

func (cli *commandLine) link(token, email string, classStd int) error {
	if classStd < cli.conf.Class.Min || classStd > cli.conf.Class.Max {
		return fmt.Errorf("class must be between %d and %d", cli.conf.Class.Min, cli.conf.Class.Max)
	}
	ctx := context.Background()
	if _, err := cli.client.LinkStudent(ctx, token, email, classStd); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "linked %s as class %d\n", email, classStd)
	return nil
}

func (cli *commandLine) plan(token, subject string) error {
	ctx := context.Background()
	payload, err := cli.client.GeneratePlan(ctx, token, subject)
	if err != nil {
		return err
	}

	result := normalize.Normalize(payload)
	switch result.Kind {
	case normalize.KindWeeks:
		for i, week := range result.Weeks {
			title := week.Title
			if title == "" {
				title = fmt.Sprintf("Week %d", i+1)
			}
			fmt.Fprintf(cli.out, "%s\n", title)
			for _, topic := range week.Topics {
				fmt.Fprintf(cli.out, "  - %s\n", topic)
			}
			for _, day := range week.Schedule {
				printDay(cli, day, "  ")
			}
		}
	case normalize.KindDays:
		for _, day := range result.Days {
			printDay(cli, day, "")
		}
	case normalize.KindMarkdown:
		fmt.Fprintln(cli.out, normalize.Unescape(result.Text))
	default:
		fmt.Fprintln(cli.out, "(empty plan)")
	}
	return nil
}

func printDay(cli *commandLine, day normalize.Day, indent string) {
	if day.Title != "" {
		fmt.Fprintf(cli.out, "%s%s\n", indent, day.Title)
	}
	for _, task := range day.Tasks {
		fmt.Fprintf(cli.out, "%s  - %s\n", indent, task)
	}
}

func (cli *commandLine) health() error {
	code, err := cli.client.Healthz(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s -> %d\n", cli.client.BaseURL(), code)
	return nil
}
