// Command test-kommo-integration pushes one fake prospect to the configured Kommo
// account so the pipeline status and contact matching can be checked by hand.
package main

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/prospect-intake/internal/config"
	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/infra/integration/kommo"
	"github.com/xavierca1/prospect-intake/internal/infra/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}
	if !cfg.Kommo.Enabled() {
		log.Fatal("❌ KOMMO_BASE_URL and KOMMO_API_TOKEN must be set")
	}

	client := kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.APIToken, cfg.Kommo.StatusID)

	prospect := queue.ProspectSubmittedPayload{
		ProspectID:  "smoke-test",
		Name:        "Test Prospect",
		Email:       "test.prospect@example.com",
		Phone:       "+1 555 010 2030",
		Goals:       "Integration smoke test",
		Services:    []string{"Accounting Services"},
		BudgetRange: entity.Budget5kTo10k,
		SubmittedAt: time.Now(),
		Origin:      "SMOKE_TEST",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("🚀 Sending test lead to Kommo...")
	leadID, err := client.CreateLead(ctx, prospect)
	if err != nil {
		log.Fatalf("❌ Kommo: %v", err)
	}
	log.Printf("✅ Lead %d created", leadID)
}
