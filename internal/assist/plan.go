package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/suPer8Hu/account-pilot/internal/ai"
)

// GenerateBestPlan compares the supplied companies and produces a single
// best account plan. The caller enforces the >= 2 companies precondition;
// this method is never reached with fewer. Exhausted retries surface as an
// error so the handler can answer with the endpoint's fallback shape.
func (s *Service) GenerateBestPlan(ctx context.Context, companies []map[string]any) (*BestPlanResult, error) {
	companiesData, err := json.MarshalIndent(companies, "", "  ")
	if err != nil {
		return nil, err
	}
	userPrompt := fmt.Sprintf("Companies to analyze:\n\n%s\n\nGenerate the best account plan.", companiesData)

	var result *BestPlanResult
	genErr := ai.Retry(ctx, s.retry, func() error {
		raw, err := s.gen.Generate(ctx, bestPlanSystemPrompt, userPrompt)
		if err != nil {
			return err
		}
		parsed, err := parseBestPlanResult(raw)
		if err != nil {
			return err
		}
		result = parsed
		return nil
	})
	if genErr != nil {
		return nil, genErr
	}

	if result.BestPlan != nil && result.BestPlan.Name != "" {
		if err := s.persistCompany(ctx, result.BestPlan); err != nil {
			log.Printf("best plan save failed company=%q err=%v", result.BestPlan.Name, err)
		}
	}
	return result, nil
}
