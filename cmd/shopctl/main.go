package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jmehta/storefront/internal/client"
	"github.com/jmehta/storefront/pkg/apiclient"
)

func main() {
	baseURL := flag.String("server", "http://localhost:5001", "storefront server URL")
	tokenPath := flag.String("token-file", "", "session token file (default ~/.shopctl_token)")
	flag.Parse()

	tokens := client.DefaultTokenFile()
	if *tokenPath != "" {
		tokens = &client.TokenFile{Path: *tokenPath}
	}

	app := client.NewApp(apiclient.NewClient(*baseURL), tokens)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load products: %v\n", err)
	}

	client.Render(os.Stdout, app.State())

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}
		if line != "" {
			if err := dispatch(ctx, app, line); err != nil {
				// universal policy: show the server's message, keep state
				fmt.Fprintf(os.Stderr, "error: %s\n", errMessage(err))
			}
			client.Render(os.Stdout, app.State())
		}
		fmt.Print("> ")
	}
}

func dispatch(ctx context.Context, app *client.App, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "home":
		app.Navigate(client.ViewHome)
		return app.Reload(ctx)
	case "admin":
		app.Navigate(client.ViewAdmin)
		return nil
	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <user> <pass>")
		}
		return app.Login(ctx, args[0], args[1])
	case "logout":
		app.Logout()
		return nil
	case "search":
		app.Search(strings.Join(args, " "))
		return nil
	case "add":
		if len(args) < 2 {
			return errors.New("usage: add <name> <price> [image]")
		}
		price, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("price must be a number: %w", err)
		}
		imagePath := ""
		if len(args) > 2 {
			imagePath = args[2]
		}
		return app.AddProduct(ctx, args[0], price, imagePath)
	case "toggle":
		if len(args) != 1 {
			return errors.New("usage: toggle <id>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("id must be an integer: %w", err)
		}
		return app.ToggleProduct(ctx, uint(id))
	case "delete":
		if len(args) != 1 {
			return errors.New("usage: delete <id>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("id must be an integer: %w", err)
		}
		return app.DeleteProduct(ctx, uint(id))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func errMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
