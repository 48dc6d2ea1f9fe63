package normalize

import "strings"

// Unescape fixes literal \n and \t sequences leaking out of JSON-encoded
// strings. It is applied exactly once, at render time; running it again on
// its own output is a no-op.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	return strings.ReplaceAll(s, `\t`, "\t")
}

// Answer extracts a displayable reply from a chat-like payload:
//
//  1. a chat_history array's last ai/assistant/system message,
//  2. the first of answer/text/content/message when it is a string,
//  3. a JSON document hiding inside a string payload (recursed into),
//  4. the whole payload pretty-printed.
func Answer(payload interface{}) string {
	switch p := payload.(type) {
	case map[string]interface{}:
		if hist, ok := p["chat_history"].([]interface{}); ok {
			for i := len(hist) - 1; i >= 0; i-- {
				msg, _ := hist[i].(map[string]interface{})
				if msg == nil {
					continue
				}
				role, _ := msg["role"].(string)
				if role != "ai" && role != "assistant" && role != "system" {
					continue
				}
				if s, ok := msg["message"].(string); ok && s != "" {
					return Unescape(s)
				}
				if s, ok := msg["content"].(string); ok && s != "" {
					return Unescape(s)
				}
			}
		}
		for _, key := range []string{"answer", "text", "content", "message"} {
			v, present := p[key]
			if !present || v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				return Unescape(s)
			}
			break // first present field wins the slot, string or not
		}
		return PrettyJSON(p)
	case string:
		if parsed, ok := safeParse(p); ok {
			if _, isStr := parsed.(string); !isStr {
				return Answer(parsed)
			}
		}
		return Unescape(p)
	default:
		return PrettyJSON(payload)
	}
}

// Summary extracts a summary string from a notes-summarize payload.
// Priority: summary > summarized_text > answer > bullets > points > chunks,
// then the pretty-printed payload.
func Summary(payload interface{}) string {
	m, ok := payload.(map[string]interface{})
	if !ok {
		if s, isStr := payload.(string); isStr {
			return s
		}
		return PrettyJSON(payload)
	}
	for _, key := range []string{"summary", "summarized_text", "answer"} {
		if s, ok := m[key].(string); ok {
			return s
		}
	}
	if bullets, ok := m["bullets"].([]interface{}); ok {
		return joinBullets(bullets)
	}
	if points, ok := m["points"].([]interface{}); ok {
		return joinBullets(points)
	}
	if chunks, ok := m["chunks"].([]interface{}); ok {
		return strings.Join(stringifyAll(chunks), "\n\n")
	}
	return PrettyJSON(m)
}

// Transcript extracts a transcript from a video-load payload: a transcript
// string, chunks joined by blank lines, or the pretty-printed payload.
func Transcript(payload interface{}) string {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return PrettyJSON(payload)
	}
	if s, ok := m["transcript"].(string); ok {
		return s
	}
	if chunks, ok := m["chunks"].([]interface{}); ok {
		return strings.Join(stringifyAll(chunks), "\n\n")
	}
	return PrettyJSON(m)
}

func joinBullets(items []interface{}) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+stringify(item))
	}
	return strings.Join(lines, "\n")
}
