package client

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/jmehta/storefront/pkg/apiclient"
)

var (
	heading   = color.New(color.FgCyan, color.Bold)
	cardName  = color.New(color.Bold)
	available = color.New(color.FgGreen)
	soldOut   = color.New(color.FgRed)
	hint      = color.New(color.Faint)
)

// Render writes the current view to w. It reads State and nothing else.
func Render(w io.Writer, s *State) {
	switch s.View {
	case ViewLogin:
		renderLogin(w)
	case ViewAdmin:
		renderAdmin(w, s)
	default:
		renderHome(w, s)
	}
}

func renderHome(w io.Writer, s *State) {
	heading.Fprintln(w, "== Storefront ==")
	if s.Query != "" {
		hint.Fprintf(w, "search: %q\n", s.Query)
	}
	renderCards(w, s.Visible(), false)
	hint.Fprintln(w, "commands: search <text> | login <user> <pass> | admin | quit")
}

func renderLogin(w io.Writer) {
	heading.Fprintln(w, "== Admin Login ==")
	hint.Fprintln(w, "commands: login <user> <pass> | home")
}

func renderAdmin(w io.Writer, s *State) {
	heading.Fprintln(w, "== Admin Panel ==")
	if s.CurrentUser != nil {
		fmt.Fprintf(w, "signed in as %s (%s)\n", s.CurrentUser.Username, s.CurrentUser.Role)
	}
	renderCards(w, s.Visible(), true)
	hint.Fprintln(w, "commands: add <name> <price> [image] | toggle <id> | delete <id> | logout | home")
}

func renderCards(w io.Writer, items []apiclient.Product, admin bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no products found")
		return
	}

	for _, p := range items {
		image := "[no image]"
		if p.Image != nil {
			image = *p.Image
		}

		badge := available.Sprint("Available")
		if !p.Available {
			badge = soldOut.Sprint("Sold Out")
		}

		fmt.Fprintf(w, "  %s  %.2f  %s  %s", cardName.Sprint(p.Name), p.Price, badge, image)
		if admin {
			hint.Fprintf(w, "  [toggle %d] [delete %d]", p.ID, p.ID)
		}
		fmt.Fprintln(w)
	}
}
