package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jmehta/storefront/internal/handlers"
	"github.com/jmehta/storefront/internal/httpserver"
	"github.com/jmehta/storefront/internal/middleware"
	"github.com/jmehta/storefront/internal/models"
	"github.com/jmehta/storefront/internal/repo"
	"github.com/jmehta/storefront/internal/service"
	"github.com/jmehta/storefront/internal/upload"
	"github.com/jmehta/storefront/pkg/apiclient"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}, &models.Product{}))

	uploads, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)

	store := repo.New(db)
	secret := []byte("test-secret")
	authSvc := &service.AuthService{Repo: store, JWTSecret: secret}
	catalogSvc := &service.CatalogService{Repo: store, Uploads: uploads}
	require.NoError(t, authSvc.SeedAdmin(context.Background(), "admin", "secret"))

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Svc: authSvc},
		ProductHandler: &handlers.ProductHandler{Svc: catalogSvc},
		Guard:          middleware.NewGuard(secret),
		UploadDir:      uploads.Dir,
	})

	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)
	return ts
}

func newTestApp(t *testing.T, ts *httptest.Server) *App {
	t.Helper()
	tokens := &TokenFile{Path: filepath.Join(t.TempDir(), "token")}
	return NewApp(apiclient.NewClient(ts.URL), tokens)
}

func TestStartLoadsProducts(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)
	ctx := context.Background()

	require.NoError(t, app.Start(ctx))
	require.Equal(t, ViewHome, app.State().View)
	require.Nil(t, app.State().CurrentUser)
	require.Empty(t, app.State().Products)
}

func TestAdminWithoutSessionRedirectsToLogin(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)

	app.Navigate(ViewAdmin)
	require.Equal(t, ViewLogin, app.State().View)
}

func TestLoginFlow(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)
	ctx := context.Background()

	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Login(ctx, "admin", "secret"))

	require.Equal(t, ViewAdmin, app.State().View)
	require.NotNil(t, app.State().CurrentUser)
	require.Equal(t, "admin", app.State().CurrentUser.Username)
	require.NotEmpty(t, app.tokens.Load())
}

func TestFailedLoginLeavesStateUnchanged(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)
	ctx := context.Background()

	require.NoError(t, app.Start(ctx))
	app.Navigate(ViewLogin)

	err := app.Login(ctx, "admin", "wrong")
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid credentials", apiErr.Message)

	require.Equal(t, ViewLogin, app.State().View)
	require.Nil(t, app.State().CurrentUser)
	require.Empty(t, app.tokens.Load())
}

func TestSessionRestoreAcrossRestart(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)
	ctx := context.Background()

	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Login(ctx, "admin", "secret"))

	// new App sharing the token file, as after a process restart
	restarted := NewApp(apiclient.NewClient(ts.URL), app.tokens)
	require.NoError(t, restarted.Start(ctx))
	require.NotNil(t, restarted.State().CurrentUser)
	require.Equal(t, "admin", restarted.State().CurrentUser.Username)
}

func TestStoredGarbageTokenDiscarded(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)
	require.NoError(t, app.tokens.Save("garbage-token"))

	require.NoError(t, app.Start(context.Background()))
	require.Nil(t, app.State().CurrentUser)
	require.Empty(t, app.tokens.Load())
}

func TestLogoutClearsSession(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)
	ctx := context.Background()

	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Login(ctx, "admin", "secret"))

	app.Logout()
	require.Nil(t, app.State().CurrentUser)
	require.Equal(t, ViewHome, app.State().View)
	require.Empty(t, app.tokens.Load())

	app.Navigate(ViewAdmin)
	require.Equal(t, ViewLogin, app.State().View)
}

func TestAddToggleDelete(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)
	ctx := context.Background()

	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Login(ctx, "admin", "secret"))

	require.NoError(t, app.AddProduct(ctx, "Milk", 42, ""))
	require.Len(t, app.State().Products, 1)
	id := app.State().Products[0].ID
	require.True(t, app.State().Products[0].Available)

	require.NoError(t, app.ToggleProduct(ctx, id))
	require.False(t, app.State().Products[0].Available)

	require.NoError(t, app.DeleteProduct(ctx, id))
	require.Empty(t, app.State().Products)
}

func TestLocalSearchFiltersWithoutServer(t *testing.T) {
	state := State{
		Products: []apiclient.Product{
			{ID: 1, Name: "Milk 500ml"},
			{ID: 2, Name: "Bread"},
			{ID: 3, Name: "Buttermilk"},
		},
	}

	state.Query = "MILK"
	visible := state.Visible()
	require.Len(t, visible, 2)
	require.Equal(t, "Milk 500ml", visible[0].Name)
	require.Equal(t, "Buttermilk", visible[1].Name)

	state.Query = ""
	require.Len(t, state.Visible(), 3)
}

func TestUnauthenticatedAddSurfacesServerMessage(t *testing.T) {
	ts := newTestServer(t)
	app := newTestApp(t, ts)
	ctx := context.Background()

	require.NoError(t, app.Start(ctx))

	err := app.AddProduct(ctx, "Milk", 42, "")
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.Status)
}
