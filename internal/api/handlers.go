package api

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sellerscout/seller-scout/internal/catalog"
	"github.com/sellerscout/seller-scout/internal/common"
	"github.com/sellerscout/seller-scout/internal/model"
	"github.com/sellerscout/seller-scout/internal/payments"
	"github.com/sellerscout/seller-scout/internal/vetting"
)

// resetPhrases end the current refinement session when received as a search
// prompt.
var resetPhrases = map[string]bool{
	"reset":              true,
	"sterge":             true,
	"șterge":             true,
	"reset conversatie":  true,
	"sterge tot":         true,
}

type searchRequest struct {
	Prompt string `json:"prompt"`
}

type searchProduct struct {
	URL              string   `json:"url"`
	ProductName      string   `json:"productName"`
	CompanyName      string   `json:"companyName"`
	CredibilityScore int      `json:"credibilityScore"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	Price            *float64 `json:"price,omitempty"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return fiber.NewError(fiber.StatusBadRequest, "prompt is required")
	}

	if resetPhrases[strings.ToLower(prompt)] {
		s.deps.Session.Reset()
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Conversation reset",
		})
	}

	ctx := c.UserContext()

	var (
		sel model.FilterSelection
		err error
	)
	if s.deps.Session.Active() {
		sel, err = s.deps.Session.Refine(ctx, prompt)
	} else {
		sel, err = s.deps.Session.Start(ctx, prompt)
	}
	if err != nil {
		slog.Error("Filter selection failed", "error", err)
		if common.IsRetryable(err) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "the assistant is temporarily unavailable, try again shortly")
		}
		return fiber.NewError(fiber.StatusBadGateway, "could not interpret the request")
	}

	searchURL, err := catalog.BuildSearchURL(s.deps.MarketplaceBaseURL, sel, s.deps.Catalog)
	if err != nil {
		slog.Error("Search URL assembly failed", "category", sel.Category, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "could not build a search for the request")
	}

	products, err := s.deps.Lister.Products(ctx, searchURL)
	if err != nil {
		slog.Error("Listing scrape failed", "url", searchURL, "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "could not fetch search results")
	}

	engine := vetting.NewEngine(s.deps.Resolver, s.deps.Financials, vetting.NewVendorCache(), vetting.Config{
		Workers: s.deps.Workers,
	})
	ranked, stats := engine.VetBatch(ctx, products)
	slog.Info("Search completed",
		"prompt", prompt,
		"url", searchURL,
		"scraped", stats.Submitted,
		"accepted", stats.Accepted,
		"duration", stats.Duration)

	if s.deps.History != nil {
		if err := s.deps.History.SaveSearch(ctx, prompt, len(ranked)); err != nil {
			slog.Warn("Failed to save search history", "error", err)
		}
	}

	out := make([]searchProduct, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, searchProduct{
			URL:              r.Product.URL,
			ProductName:      r.Product.Name,
			CompanyName:      r.VendorName,
			CredibilityScore: r.Score,
			ImageURL:         r.Product.Image,
			Price:            r.Product.Price,
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"products": out,
		"count":    len(out),
		"url":      searchURL,
		"filters":  sel,
	})
}

func (s *Server) handleSearchHistory(c *fiber.Ctx) error {
	if s.deps.History == nil {
		return c.JSON(fiber.Map{"success": true, "searches": []model.SearchRecord{}})
	}

	records, err := s.deps.History.RecentSearches(c.UserContext(), 0)
	if err != nil {
		slog.Error("Failed to load search history", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not load search history")
	}
	if records == nil {
		records = []model.SearchRecord{}
	}

	return c.JSON(fiber.Map{"success": true, "searches": records})
}

type checkoutRequest struct {
	Items       []payments.CartItem `json:"items"`
	FrontendURL string              `json:"frontendUrl"`
}

func (s *Server) handleCreateCheckoutSession(c *fiber.Ctx) error {
	if s.deps.Payments == nil || !s.deps.Payments.Enabled() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "payments are not configured")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	frontend := req.FrontendURL
	if frontend == "" {
		frontend = c.Get(fiber.HeaderOrigin)
	}
	if frontend == "" {
		frontend = "http://localhost:3000"
	}
	frontend = strings.TrimRight(frontend, "/")

	sessionID, err := s.deps.Payments.CreateCheckoutSession(req.Items, frontend)
	if err != nil {
		slog.Error("Checkout session creation failed", "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "could not create checkout session")
	}

	return c.JSON(fiber.Map{"success": true, "sessionId": sessionID})
}
