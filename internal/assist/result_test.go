package assist

import (
	"encoding/json"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"reply\":\"x\"}\n```", `{"reply":"x"}`},
		{"```\n{\"reply\":\"x\"}\n```", `{"reply":"x"}`},
		{`{"reply":"x"}`, `{"reply":"x"}`},
		{"Here you go:\n```json\n{}\n```", "{}"},
	}
	for _, tc := range cases {
		if got := StripCodeFences(tc.in); got != tc.want {
			t.Fatalf("input %q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Every serialized result carries the company key, as an empty object on
// paths that produce no plan.
func TestChatResult_CompanyKeyAlwaysPresent(t *testing.T) {
	b, err := json.Marshal(&ChatResult{Reply: "Please clarify.", Suggestions: []string{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw, ok := decoded["company"]
	if !ok {
		t.Fatalf("company key missing: %s", b)
	}
	if string(raw) != "{}" {
		t.Fatalf("expected empty object, got %s", raw)
	}
}

func TestChatResult_CompanySurvivesMarshal(t *testing.T) {
	b, err := json.Marshal(&ChatResult{Reply: "ok", Company: &Company{Name: "Acme"}, Suggestions: []string{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Company map[string]any `json:"company"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Company["name"] != "Acme" {
		t.Fatalf("company lost in marshal: %s", b)
	}
}

func TestParseChatResult_FlexibleNumericFields(t *testing.T) {
	raw := `{"reply":"ok","company":{"name":"Acme","revenue":5000000000,"employees":"10,000+","funding_history":[{"year":2020,"amount":100}]}}`
	out, err := parseChatResult(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.Company.Revenue != "5000000000" {
		t.Fatalf("numeric revenue not coerced: %q", out.Company.Revenue)
	}
	if out.Company.FundingHistory[0].Year != "2020" {
		t.Fatalf("numeric year not coerced: %q", out.Company.FundingHistory[0].Year)
	}
}

func TestParseChatResult_EmptyCompanyNameDropped(t *testing.T) {
	out, err := parseChatResult(`{"reply":"ok","company":{"name":""}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.Company != nil {
		t.Fatalf("nameless company should be dropped, got %+v", out.Company)
	}
}
