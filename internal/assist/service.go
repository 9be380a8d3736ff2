// Package assist assembles responses: it runs the interpretation pipeline
// over a fresh history snapshot, branches on intent, gathers research
// context, and drives the generation collaborator with persona/intent
// instruction fragments, validating and repairing what comes back.
package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/suPer8Hu/account-pilot/internal/ai"
	"github.com/suPer8Hu/account-pilot/internal/convo"
	"github.com/suPer8Hu/account-pilot/internal/store"
)

// Searcher is the web-search collaborator contract.
type Searcher interface {
	CompanyBrief(ctx context.Context, company string) (string, error)
}

// ResearchCache fronts the search collaborator with a TTL cache.
type ResearchCache interface {
	GetResearch(ctx context.Context, company string) (string, error)
	SetResearch(ctx context.Context, company, brief string) error
}

type Service struct {
	repo         *store.Repo
	gen          ai.Provider
	search       Searcher      // nil when no search key is configured
	cache        ResearchCache // nil when the cache is disabled
	retry        ai.RetryPolicy
	historyLimit int
}

func NewService(repo *store.Repo, gen ai.Provider, search Searcher, cache ResearchCache, retry ai.RetryPolicy, historyLimit int) *Service {
	if historyLimit <= 0 || historyLimit > 100 {
		historyLimit = 10
	}
	return &Service{
		repo:         repo,
		gen:          gen,
		search:       search,
		cache:        cache,
		retry:        retry,
		historyLimit: historyLimit,
	}
}

type ChatRequest struct {
	SessionID   string
	Prompt      string
	Companies   []map[string]any
	Preferences map[string]string
}

func strPtr(s string) *string { return &s }

// historySnapshot re-reads session history from the store and maps it to
// the pipeline's view. Classifiers never see storage rows directly.
func (s *Service) historySnapshot(ctx context.Context, sessionID string, limit int) ([]convo.Turn, error) {
	rows, err := s.repo.History(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]convo.Turn, 0, len(rows))
	for i := range rows {
		out = append(out, convo.Turn{
			Role:     rows[i].Role,
			Content:  rows[i].Content,
			Metadata: rows[i].Meta(),
		})
	}
	return out, nil
}

func (s *Service) saveAssistantTurn(ctx context.Context, sessionID, content string, intent *string, persona *string, meta map[string]string) uint64 {
	t := &store.Turn{
		SessionID: sessionID,
		Role:      "assistant",
		Content:   content,
		Intent:    intent,
		Persona:   persona,
	}
	t.SetMeta(meta)
	if err := s.repo.AppendTurn(ctx, t); err != nil {
		log.Printf("append assistant turn failed session=%s err=%v", sessionID, err)
		return 0
	}
	return t.ID
}

// ProcessChat runs the full pipeline for one inbound chat turn. It never
// returns an error: every path, including exhausted collaborator retries
// and storage failures, degrades to a structurally-valid ChatResult. The
// returned id is the stored assistant turn, 0 when no turn was written.
func (s *Service) ProcessChat(ctx context.Context, req ChatRequest) (*ChatResult, uint64) {
	prompt := convo.Sanitize(req.Prompt)

	if v := convo.ValidatePrompt(prompt); !v.Valid {
		suggestions := v.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		return &ChatResult{Reply: v.Message, Suggestions: suggestions, NeedsClarification: true}, 0
	}

	history, err := s.historySnapshot(ctx, req.SessionID, s.historyLimit)
	if err != nil {
		log.Printf("history read failed session=%s err=%v", req.SessionID, err)
		return s.storageFallback(err), 0
	}

	resolved := convo.ResolveReferences(prompt, history)
	persona := convo.DetectPersona(history)
	intent := convo.ClassifyIntent(resolved, history)

	userTurn := &store.Turn{
		SessionID: req.SessionID,
		Role:      "user",
		Content:   prompt,
		Intent:    strPtr(string(intent)),
		Persona:   strPtr(string(persona)),
	}
	if err := s.repo.AppendTurn(ctx, userTurn); err != nil {
		log.Printf("append user turn failed session=%s err=%v", req.SessionID, err)
		return s.storageFallback(err), 0
	}

	// Help and off-topic intents are answered from canned fragments; no
	// generation call is spent on them.
	switch intent {
	case convo.IntentHelp:
		res := helpResponse(persona)
		id := s.saveAssistantTurn(ctx, req.SessionID, res.Reply, strPtr(string(intent)), nil, nil)
		return res, id
	case convo.IntentOffTopic:
		res := offTopicResponse(persona)
		id := s.saveAssistantTurn(ctx, req.SessionID, res.Reply, strPtr(string(intent)), nil, nil)
		return res, id
	}

	var companyName string
	if intent == convo.IntentResearch {
		if name := convo.ExtractCompanyName(resolved); name != "" {
			if ok, msg := convo.ValidateCompanyName(name); !ok {
				return &ChatResult{Reply: msg, Suggestions: []string{}, NeedsClarification: true}, 0
			}
			companyName = name
		} else {
			companyName = s.extractViaGeneration(ctx, resolved)
		}
	}

	var researchContext string
	if companyName != "" {
		researchContext = s.researchContext(ctx, companyName)
	}

	system := buildSystemPrompt(persona, intent, history, researchContext, req.Companies, req.Preferences["verbosity"])

	var result *ChatResult
	genErr := ai.Retry(ctx, s.retry, func() error {
		raw, err := s.gen.Generate(ctx, system, resolved)
		if err != nil {
			return err
		}
		parsed, err := parseChatResult(raw)
		if err != nil {
			return err
		}
		result = parsed
		return nil
	})
	if genErr != nil {
		log.Printf("generation failed session=%s intent=%s err=%v", req.SessionID, intent, genErr)
		friendly := UserFacingError(genErr)
		id := s.saveAssistantTurn(ctx, req.SessionID, friendly, strPtr("error"), nil, nil)
		return &ChatResult{
			Reply:       friendly,
			Suggestions: []string{"Try rephrasing your request", "Check your API configuration"},
		}, id
	}

	if len(result.Suggestions) == 0 {
		result.Suggestions = contextualSuggestions(intent, len(req.Companies))
	}

	var meta map[string]string
	if result.Company != nil && result.Company.Name != "" {
		if err := s.persistCompany(ctx, result.Company); err != nil {
			// The reply survives; the record write is retried on the next
			// turn referencing the same company.
			log.Printf("account save failed session=%s company=%q err=%v", req.SessionID, result.Company.Name, err)
		}
		action := "research"
		if intent == convo.IntentUpdate {
			action = "update"
		}
		meta = map[string]string{
			"company_name": result.Company.Name,
			"action":       action,
		}
	}

	id := s.saveAssistantTurn(ctx, req.SessionID, result.Reply, strPtr(string(intent)), strPtr(string(persona)), meta)
	return result, id
}

func (s *Service) storageFallback(err error) *ChatResult {
	return &ChatResult{
		Reply:       UserFacingError(fmt.Errorf("database: %w", err)),
		Suggestions: []string{"Try again"},
	}
}

// extractViaGeneration asks the generation backend for the bare company
// name when no pattern matched. "NONE" (any casing) and failures both
// yield "".
func (s *Service) extractViaGeneration(ctx context.Context, resolvedPrompt string) string {
	p := s.retry
	p.MaxAttempts = 2

	var raw string
	err := ai.Retry(ctx, p, func() error {
		out, err := s.gen.Generate(ctx, "", extractionPrompt(resolvedPrompt))
		if err != nil {
			return err
		}
		raw = out
		return nil
	})
	if err != nil {
		log.Printf("company extraction failed err=%v", err)
		return ""
	}

	name := strings.TrimSpace(raw)
	name = strings.Trim(name, `"'`)
	name = strings.TrimSuffix(name, ".")
	if name == "" || strings.EqualFold(name, "none") {
		return ""
	}
	return name
}

// researchContext returns the labeled research block for the system
// prompt, cache-first. Search failures degrade to a note telling the
// backend to fall back to general knowledge.
func (s *Service) researchContext(ctx context.Context, company string) string {
	if s.cache != nil {
		if brief, err := s.cache.GetResearch(ctx, company); err != nil {
			log.Printf("research cache read failed company=%q err=%v", company, err)
		} else if brief != "" {
			return fmt.Sprintf("REAL-TIME RESEARCH DATA FOR %s:\n%s\n\n", company, brief)
		}
	}

	if s.search == nil {
		return fmt.Sprintf("Note: Could not fetch real-time data for %s. Use general knowledge.\n\n", company)
	}

	brief, err := s.search.CompanyBrief(ctx, company)
	if err != nil {
		log.Printf("research failed company=%q err=%v", company, err)
		return fmt.Sprintf("Note: Could not fetch real-time data for %s. Use general knowledge.\n\n", company)
	}

	if s.cache != nil {
		if err := s.cache.SetResearch(ctx, company, brief); err != nil {
			log.Printf("research cache write failed company=%q err=%v", company, err)
		}
	}
	return fmt.Sprintf("REAL-TIME RESEARCH DATA FOR %s:\n%s\n\n", company, brief)
}

// persistCompany upserts the account record, assigning a short opaque id
// on first save. The id is stable across subsequent updates.
func (s *Service) persistCompany(ctx context.Context, c *Company) error {
	if c.ID == "" {
		c.ID = uuid.NewString()[:8]
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.repo.SaveAccount(ctx, &store.Account{
		ID:          c.ID,
		CompanyName: c.Name,
		Payload:     string(payload),
	})
}

// Suggestions backs the /suggestions endpoint: persona from recent
// history, suggestion set from the session's company count.
func (s *Service) Suggestions(ctx context.Context, sessionID string, companyCount int) ([]string, convo.Persona) {
	persona := convo.PersonaUnknown
	if sessionID != "" {
		if history, err := s.historySnapshot(ctx, sessionID, 5); err != nil {
			log.Printf("suggestions history read failed session=%s err=%v", sessionID, err)
		} else {
			persona = convo.DetectPersona(history)
		}
	}
	return stateSuggestions(companyCount), persona
}

// Summary condenses a session into companies researched, actions taken,
// and the interaction total.
func (s *Service) Summary(ctx context.Context, sessionID string) (string, error) {
	history, err := s.historySnapshot(ctx, sessionID, 20)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "No conversation history.", nil
	}

	var companies []string
	seen := map[string]bool{}
	var actions []string
	for _, t := range history {
		if t.Role != "assistant" || t.Metadata == nil {
			continue
		}
		if name := t.Metadata["company_name"]; name != "" && !seen[name] {
			seen[name] = true
			companies = append(companies, name)
		}
		if action := t.Metadata["action"]; action != "" {
			actions = append(actions, action)
		}
	}

	var parts []string
	if len(companies) > 0 {
		parts = append(parts, "Companies researched: "+strings.Join(companies, ", "))
	}
	if len(actions) > 0 {
		parts = append(parts, "Actions: "+strings.Join(actions, ", "))
	}
	parts = append(parts, fmt.Sprintf("Total interactions: %d", len(history)))
	return strings.Join(parts, " | "), nil
}
