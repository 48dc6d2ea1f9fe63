// Package normalize coerces the loosely-shaped payloads of the BrainBuddy API
// into the small set of structures the portal knows how to render. The API's
// response shape is not contractually fixed across its own endpoints, so every
// function here is a defensive fallback chain, never an error source: anything
// unrecognized degrades to markdown text.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type Kind string

const (
	KindEmpty    Kind = "empty"
	KindMarkdown Kind = "markdown"
	KindWeeks    Kind = "weeks"
	KindDays     Kind = "days"
)

// Result is a normalized payload: exactly one of Text, Weeks or Days is
// meaningful, discriminated by Kind.
type Result struct {
	Kind  Kind
	Text  string
	Weeks []Week
	Days  []Day
}

type Week struct {
	Title    string
	Topics   []string
	Schedule []Day
}

type Day struct {
	Title string
	Tasks []string
}

// Normalize turns a raw study-plan-like payload (a string, or a decoded JSON
// value of unknown shape) into a renderable Result.
//
// Order: empty check, then a "direct" candidate field, then JSON-in-string
// parsing, then weeks/days lookups at the known nesting points, then the
// markdown fallback (pretty-printing structures as a fenced code block).
func Normalize(payload interface{}) Result {
	if isEmptyPayload(payload) {
		return Result{Kind: KindEmpty}
	}

	direct := directCandidate(payload)

	// If the direct candidate is a string holding JSON, prefer the parsed
	// value; otherwise fall back to the payload itself when it is already
	// structured.
	var structured map[string]interface{}
	if s, ok := direct.(string); ok {
		if parsed, ok := safeParse(s); ok {
			if m, ok := parsed.(map[string]interface{}); ok {
				structured = m
			}
		}
	}
	if structured == nil {
		if m, ok := payload.(map[string]interface{}); ok {
			structured = m
		}
	}

	if structured != nil {
		if weeks, ok := weeksLookup(structured); ok {
			return Result{Kind: KindWeeks, Weeks: coerceWeeks(weeks)}
		}
		if days, ok := daysLookup(structured); ok {
			return Result{Kind: KindDays, Days: coerceDays(days)}
		}
	}

	// Otherwise treat as markdown/text.
	if s, ok := direct.(string); ok {
		return Result{Kind: KindMarkdown, Text: s}
	}
	if s, ok := payload.(string); ok {
		return Result{Kind: KindMarkdown, Text: s}
	}
	return Result{Kind: KindMarkdown, Text: FencedJSON(payload)}
}

func isEmptyPayload(payload interface{}) bool {
	if payload == nil {
		return true
	}
	s, ok := payload.(string)
	return ok && s == ""
}

// directCandidate picks the first truthy value among the payload itself (when
// a string) and the well-known wrapper fields, in fixed priority order.
func directCandidate(payload interface{}) interface{} {
	if s, ok := payload.(string); ok {
		return s
	}
	m, ok := payload.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, key := range []string{"plan", "study_plan", "answer", "text", "content", "result"} {
		if v, ok := m[key]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

func weeksLookup(m map[string]interface{}) ([]interface{}, bool) {
	if weeks, ok := m["weeks"].([]interface{}); ok {
		return weeks, true
	}
	if weeks, ok := m["week_plan"].([]interface{}); ok {
		return weeks, true
	}
	for _, wrapper := range []string{"plan", "study_plan"} {
		if inner, ok := m[wrapper].(map[string]interface{}); ok {
			if weeks, ok := inner["weeks"].([]interface{}); ok {
				return weeks, true
			}
		}
	}
	return nil, false
}

func daysLookup(m map[string]interface{}) ([]interface{}, bool) {
	for _, key := range []string{"days", "schedule", "daily_plan"} {
		if days, ok := m[key].([]interface{}); ok {
			return days, true
		}
	}
	return nil, false
}

func coerceWeeks(items []interface{}) []Week {
	weeks := make([]Week, 0, len(items))
	for i, item := range items {
		m, _ := item.(map[string]interface{})
		w := Week{
			Title:  titleOf(m, "week", fmt.Sprintf("Week %d", i+1)),
			Topics: stringList(m["topics"]),
		}
		if sched, ok := m["schedule"].([]interface{}); ok {
			w.Schedule = coerceDays(sched)
		} else if days, ok := m["days"].([]interface{}); ok {
			w.Schedule = coerceDays(days)
		}
		weeks = append(weeks, w)
	}
	return weeks
}

func coerceDays(items []interface{}) []Day {
	days := make([]Day, 0, len(items))
	for i, item := range items {
		m, _ := item.(map[string]interface{})
		d := Day{Title: titleOf(m, "day", fmt.Sprintf("Day %d", i+1))}
		if tasks, ok := m["tasks"].([]interface{}); ok {
			d.Tasks = stringifyAll(tasks)
		} else if tasks, ok := m["items"].([]interface{}); ok {
			d.Tasks = stringifyAll(tasks)
		} else if content, ok := m["content"].(string); ok {
			d.Tasks = []string{content}
		}
		days = append(days, d)
	}
	return days
}

// titleOf falls back through title, the alternative key, then the positional
// default.
func titleOf(m map[string]interface{}, altKey, fallback string) string {
	if m == nil {
		return fallback
	}
	for _, key := range []string{"title", altKey} {
		if v, ok := m[key]; ok && truthy(v) {
			return stringify(v)
		}
	}
	return fallback
}

// stringList accepts a sequence or a single string coerced to one element.
func stringList(v interface{}) []string {
	switch val := v.(type) {
	case []interface{}:
		return stringifyAll(val)
	case string:
		return []string{val}
	}
	return nil
}

func stringifyAll(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringify(item))
	}
	return out
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// truthy mirrors the loose acceptance of the old web client: nil, empty
// strings, zero numbers and false are skipped; structures count even if empty.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case float64:
		return val != 0
	case bool:
		return val
	}
	return true
}

func safeParse(s string) (interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// PrettyJSON renders v as indented JSON, falling back to fmt on marshal
// failure.
func PrettyJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// FencedJSON wraps PrettyJSON in a markdown code fence.
func FencedJSON(v interface{}) string {
	return "```json\n" + PrettyJSON(v) + "\n```"
}
