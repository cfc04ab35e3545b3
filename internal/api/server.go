// Package api exposes the search pipeline over HTTP.
package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sellerscout/seller-scout/internal/catalog"
	"github.com/sellerscout/seller-scout/internal/llm"
	"github.com/sellerscout/seller-scout/internal/model"
	"github.com/sellerscout/seller-scout/internal/payments"
	"github.com/sellerscout/seller-scout/internal/scrape"
	"github.com/sellerscout/seller-scout/internal/vetting"
)

// HistoryStore records and lists past searches.
type HistoryStore interface {
	SaveSearch(ctx context.Context, prompt string, productCount int) error
	RecentSearches(ctx context.Context, limit int) ([]model.SearchRecord, error)
}

// Deps collects everything the HTTP handlers need.
type Deps struct {
	Session    *llm.Session
	Catalog    *catalog.Catalog
	Lister     *scrape.Lister
	Resolver   vetting.VendorResolver
	Financials vetting.FinancialSource
	History    HistoryStore
	Payments   *payments.Client

	// MarketplaceBaseURL is the root the search URL is built against.
	MarketplaceBaseURL string
	// Workers bounds per-request vetting concurrency.
	Workers int
}

// Server is the HTTP API front end.
type Server struct {
	app  *fiber.App
	deps Deps
}

// NewServer builds the fiber application and registers routes.
func NewServer(deps Deps) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	s := &Server{app: app, deps: deps}

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Post("/search", s.handleSearch)
	api.Get("/search-history", s.handleSearchHistory)
	api.Post("/create-checkout-session", s.handleCreateCheckoutSession)

	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address and blocks.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
