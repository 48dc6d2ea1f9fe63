package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "literal newlines", in: `line one\nline two`, want: "line one\nline two"},
		{name: "literal tabs", in: `a\tb`, want: "a\tb"},
		{name: "already clean", in: "line one\nline two", want: "line one\nline two"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unescape(tt.in); got != tt.want {
				t.Errorf("Unescape() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnescape_idempotent(t *testing.T) {
	in := `intro\n\tindented\nend`
	once := Unescape(in)
	if twice := Unescape(once); twice != once {
		t.Errorf("Unescape(Unescape()) = %q, want %q", twice, once)
	}
}

func TestAnswer_chatHistory(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "last assistant message wins",
			raw: `{"chat_history": [
				{"role": "user", "message": "hi"},
				{"role": "assistant", "message": "first"},
				{"role": "user", "message": "more"},
				{"role": "assistant", "message": "latest"}
			]}`,
			want: "latest",
		},
		{
			name: "ai and system roles count",
			raw: `{"chat_history": [
				{"role": "ai", "message": "from ai"},
				{"role": "user", "message": "q"}
			]}`,
			want: "from ai",
		},
		{
			name: "content key fallback",
			raw:  `{"chat_history": [{"role": "assistant", "content": "via content"}]}`,
			want: "via content",
		},
		{
			name: "history beats direct answer",
			raw:  `{"answer": "direct", "chat_history": [{"role": "assistant", "message": "history"}]}`,
			want: "history",
		},
		{
			name: "unescapes on the way out",
			raw:  `{"chat_history": [{"role": "assistant", "message": "a\\nb"}]}`,
			want: "a\nb",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Answer(decode(t, tt.raw)); got != tt.want {
				t.Errorf("Answer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnswer_directKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "answer first", raw: `{"answer": "a", "text": "t"}`, want: "a"},
		{name: "text next", raw: `{"text": "t", "content": "c"}`, want: "t"},
		{name: "content next", raw: `{"content": "c", "message": "m"}`, want: "c"},
		{name: "message last", raw: `{"message": "m"}`, want: "m"},
		{name: "null answer falls through", raw: `{"answer": null, "text": "t"}`, want: "t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Answer(decode(t, tt.raw)); got != tt.want {
				t.Errorf("Answer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnswer_stringPayload(t *testing.T) {
	t.Run("plain string", func(t *testing.T) {
		if got := Answer("just text"); got != "just text" {
			t.Errorf("Answer() = %q", got)
		}
	})
	t.Run("JSON hiding in a string", func(t *testing.T) {
		if got := Answer(`{"answer": "nested"}`); got != "nested" {
			t.Errorf("Answer() = %q, want %q", got, "nested")
		}
	})
	t.Run("quoted string stays a string", func(t *testing.T) {
		if got := Answer(`"hello"`); got != `"hello"` {
			t.Errorf("Answer() = %q", got)
		}
	})
}

func TestAnswer_prettyJSONFallback(t *testing.T) {
	got := Answer(decode(t, `{"score": 7}`))
	assert.Equal(t, "{\n  \"score\": 7\n}", got)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "summary first", raw: `{"summary": "s", "answer": "a"}`, want: "s"},
		{name: "summarized_text next", raw: `{"summarized_text": "st", "answer": "a"}`, want: "st"},
		{name: "answer next", raw: `{"answer": "a", "bullets": ["b"]}`, want: "a"},
		{name: "bullets joined", raw: `{"bullets": ["one", "two"]}`, want: "- one\n- two"},
		{name: "points joined", raw: `{"points": ["p"]}`, want: "- p"},
		{name: "chunks joined", raw: `{"chunks": ["c1", "c2"]}`, want: "c1\n\nc2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(decode(t, tt.raw)); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranscript(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "transcript field", raw: `{"transcript": "full text"}`, want: "full text"},
		{name: "chunks joined", raw: `{"chunks": ["part one", "part two"]}`, want: "part one\n\npart two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transcript(decode(t, tt.raw)); got != tt.want {
				t.Errorf("Transcript() = %q, want %q", got, tt.want)
			}
		})
	}
}
