package assist

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString tolerates generation backends emitting numbers where the
// contract asks for strings (years, employee counts).
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

type FundingEntry struct {
	Year   FlexString `json:"year"`
	Amount float64    `json:"amount"`
}

type RevenueEntry struct {
	Year    FlexString `json:"year"`
	Revenue float64    `json:"revenue"`
}

// PartnerEntry values are share-of-relationship percentages summing to ~100.
type PartnerEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CompetitorEntry positions a competitor on a 0-100 x/y grid.
type CompetitorEntry struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Company is the structured account plan produced by the generation
// collaborator and persisted as an account record payload.
type Company struct {
	ID             string            `json:"id,omitempty"`
	Name           string            `json:"name,omitempty"`
	Industry       string            `json:"industry,omitempty"`
	Tagline        string            `json:"tagline,omitempty"`
	Revenue        FlexString        `json:"revenue,omitempty"`
	Employees      FlexString        `json:"employees,omitempty"`
	GTMStrategy    string            `json:"gtm_strategy,omitempty"`
	SalesStrategy  string            `json:"sales_strategy,omitempty"`
	FundingHistory []FundingEntry    `json:"funding_history,omitempty"`
	RevenueTrend   []RevenueEntry    `json:"revenue_trend,omitempty"`
	Partners       []PartnerEntry    `json:"partners,omitempty"`
	Competitors    []CompetitorEntry `json:"competitors,omitempty"`
}

// ChatResult is the structurally-valid response shape every chat path
// returns, success or degraded.
type ChatResult struct {
	Reply              string   `json:"reply"`
	Company            *Company `json:"company"`
	Suggestions        []string `json:"suggestions"`
	NeedsClarification bool     `json:"needs_clarification,omitempty"`
	SessionID          string   `json:"session_id,omitempty"`
}

// MarshalJSON keeps the company key present as an empty object on paths
// that produce no plan (rejections, help, off-topic), so clients can
// always read response.company.
func (r ChatResult) MarshalJSON() ([]byte, error) {
	type alias ChatResult
	a := alias(r)
	if a.Company == nil {
		a.Company = &Company{}
	}
	return json.Marshal(a)
}

type BestPlanResult struct {
	Reply    string   `json:"reply"`
	BestPlan *Company `json:"bestPlan"`
}

// StripCodeFences removes a fenced code block wrapper (```json ... ``` or
// bare ``` ... ```) from generated text before JSON parsing.
func StripCodeFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}

func parseChatResult(raw string) (*ChatResult, error) {
	var out ChatResult
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("malformed json from generation backend: %w", err)
	}
	if out.Company != nil && out.Company.Name == "" {
		out.Company = nil
	}
	return &out, nil
}

func parseBestPlanResult(raw string) (*BestPlanResult, error) {
	var out BestPlanResult
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("malformed json from generation backend: %w", err)
	}
	return &out, nil
}
