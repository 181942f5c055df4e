// Package client is the storefront's interactive controller: it holds the
// view-model state, drives the REST API, and renders the current view. State
// changes only happen through the action methods, so rendering stays a pure
// projection of State.
package client

import (
	"context"
	"strings"

	"github.com/jmehta/storefront/pkg/apiclient"
)

type View int

const (
	ViewHome View = iota
	ViewLogin
	ViewAdmin
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewAdmin:
		return "admin"
	default:
		return "home"
	}
}

type State struct {
	View        View
	CurrentUser *apiclient.UserSummary
	Products    []apiclient.Product
	Query       string
}

// Visible filters the last-fetched product list by the local search query,
// case-insensitive substring on name. An empty query shows everything.
func (s *State) Visible() []apiclient.Product {
	if s.Query == "" {
		return s.Products
	}
	q := strings.ToLower(s.Query)
	out := make([]apiclient.Product, 0, len(s.Products))
	for _, p := range s.Products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

type App struct {
	api    *apiclient.Client
	tokens *TokenFile
	state  State
}

func NewApp(api *apiclient.Client, tokens *TokenFile) *App {
	return &App{api: api, tokens: tokens}
}

func (a *App) State() *State { return &a.state }

// Start fetches the public product list and tries to restore a previous
// session from the stored token. A token the server rejects is discarded.
func (a *App) Start(ctx context.Context) error {
	if token := a.tokens.Load(); token != "" {
		a.api.SetToken(token)
		user, valid, err := a.api.Verify(ctx)
		if err == nil && valid {
			a.state.CurrentUser = user
		} else {
			a.api.SetToken("")
			_ = a.tokens.Clear()
		}
	}

	return a.Reload(ctx)
}

func (a *App) Reload(ctx context.Context) error {
	items, err := a.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	a.state.Products = items
	return nil
}

// Navigate switches views; entering admin without a session lands on login.
func (a *App) Navigate(v View) {
	if v == ViewAdmin && a.state.CurrentUser == nil {
		a.state.View = ViewLogin
		return
	}
	a.state.View = v
}

func (a *App) Login(ctx context.Context, username, password string) error {
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.state.CurrentUser = &resp.User
	a.state.View = ViewAdmin
	if err := a.tokens.Save(resp.Token); err != nil {
		return err
	}
	return a.Reload(ctx)
}

func (a *App) Logout() {
	a.state.CurrentUser = nil
	a.state.View = ViewHome
	a.api.SetToken("")
	_ = a.tokens.Clear()
}

// Search is client-local: it never calls the server in the interactive path.
func (a *App) Search(query string) {
	a.state.Query = query
}

func (a *App) AddProduct(ctx context.Context, name string, price float64, imagePath string) error {
	if _, err := a.api.CreateProduct(ctx, name, price, imagePath); err != nil {
		return err
	}
	return a.Reload(ctx)
}

func (a *App) ToggleProduct(ctx context.Context, id uint) error {
	if _, err := a.api.ToggleAvailability(ctx, id); err != nil {
		return err
	}
	return a.Reload(ctx)
}

func (a *App) DeleteProduct(ctx context.Context, id uint) error {
	if err := a.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return a.Reload(ctx)
}
