package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davidromeroc/tienda-backend/internal/accounts"
	"github.com/davidromeroc/tienda-backend/internal/analytics"
	authsvc "github.com/davidromeroc/tienda-backend/internal/auth"
	"github.com/davidromeroc/tienda-backend/internal/catalog"
	"github.com/davidromeroc/tienda-backend/internal/inventory"
	ordersvc "github.com/davidromeroc/tienda-backend/internal/orders"
	"github.com/davidromeroc/tienda-backend/internal/pricing"
	pkgauth "github.com/davidromeroc/tienda-backend/pkg/auth"
	"github.com/davidromeroc/tienda-backend/pkg/config"
	"github.com/davidromeroc/tienda-backend/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "tienda-test",
			ExpirationMinutes: 10,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, nil, nil, nil, nil, Services{
		Auth:      stubAuthService{},
		Catalog:   stubCatalogService{},
		Orders:    stubOrdersService{},
		Inventory: stubInventoryService{},
		Accounts:  stubAccountsService{},
		Analytics: stubAnalyticsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, userID uint, isAdmin bool) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:  userID,
		Email:   "router@test.local",
		IsAdmin: isAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public catalog got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 7, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed profile got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 7, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 8, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestInventoryDashboardRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 7, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin dashboard got %d", resp.Code)
	}
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.UserDTO, error) {
	return &authsvc.UserDTO{ID: 1, Email: input.Email}, nil
}

func (stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.LoginResult, error) {
	return &authsvc.LoginResult{}, nil
}

func (stubAuthService) CurrentUser(ctx context.Context, userID uint) (*authsvc.UserDTO, error) {
	return &authsvc.UserDTO{ID: userID}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(ctx context.Context, input catalog.ListInput) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{Products: []catalog.ProductDTO{}}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, id uint) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id}, nil
}

func (stubCatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateProduct(ctx context.Context, id uint, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteProduct(ctx context.Context, id uint) error {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) Commit(ctx context.Context, userID uint, lines []pricing.CartLine) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: 1, UserID: userID}, nil
}

func (stubOrdersService) FindByID(ctx context.Context, id uint) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: id}, nil
}

func (stubOrdersService) ListByUser(ctx context.Context, userID uint, skip, limit int) (*ordersvc.OrderListResult, error) {
	return &ordersvc.OrderListResult{Orders: []ordersvc.OrderDTO{}}, nil
}

type stubInventoryService struct{}

func (stubInventoryService) ApplyMovement(ctx context.Context, input inventory.MovementInput) (*inventory.MovementDTO, error) {
	panic("unimplemented")
}

func (stubInventoryService) ListMovements(ctx context.Context, productID uint, skip, limit int) (*inventory.MovementListResult, error) {
	return &inventory.MovementListResult{Movements: []inventory.MovementDTO{}}, nil
}

func (stubInventoryService) Dashboard(ctx context.Context) (*inventory.DashboardDTO, error) {
	return &inventory.DashboardDTO{}, nil
}

type stubAccountsService struct{}

func (stubAccountsService) ListCustomers(ctx context.Context) ([]accounts.CustomerDTO, error) {
	return []accounts.CustomerDTO{}, nil
}

func (stubAccountsService) GetCustomer(ctx context.Context, userID uint) (*accounts.CustomerDTO, error) {
	return &accounts.CustomerDTO{UserID: userID}, nil
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Dashboard(ctx context.Context, windowDays int) (*analytics.DashboardDTO, error) {
	return &analytics.DashboardDTO{}, nil
}
