package main

import (
	"errors"
	"testing"

	"github.com/1ureka/pngme/internal/app"
	"github.com/1ureka/pngme/internal/payload"
)

func TestPassphraseResolveOrder(t *testing.T) {
	value, ask := "", false
	p := passphraseFlags{value: &value, ask: &ask}

	t.Setenv(passphraseEnv, "from-env")
	if got, err := p.resolve(false); err != nil || got != "from-env" {
		t.Errorf("resolve() = %q, %v; want the environment value", got, err)
	}

	value = "from-flag"
	if got, err := p.resolve(false); err != nil || got != "from-flag" {
		t.Errorf("resolve() = %q, %v; want the flag value", got, err)
	}
}

// scriptedPrompt answers prompts from a fixed list, then fails.
func scriptedPrompt(answers ...string) promptFunc {
	return func(label string) (string, error) {
		if len(answers) == 0 {
			return "", errors.New("no terminal")
		}
		answer := answers[0]
		answers = answers[1:]
		return answer, nil
	}
}

func TestAskPassphrase(t *testing.T) {
	testCases := []struct {
		name    string
		answers []string
		confirm bool
		want    string
		wantErr bool
	}{
		{"single entry", []string{"secret\n"}, false, "secret", false},
		{"empty then entry", []string{"", "secret"}, false, "secret", false},
		{"confirmed", []string{"secret", "secret"}, true, "secret", false},
		{"mismatch then confirmed", []string{"one", "two", "secret", "secret"}, true, "secret", false},
		{"prompt fails", nil, false, "", true},
		{"prompt fails after empty entries", []string{"", ""}, false, "", true},
		{"confirmation prompt fails", []string{"secret"}, true, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := askPassphrase(scriptedPrompt(tc.answers...), tc.confirm)
			if (err != nil) != tc.wantErr {
				t.Fatalf("askPassphrase error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("askPassphrase = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResultLinesKeepMessageVerbatim(t *testing.T) {
	message := `héllo "wörld" 🔒`

	if got, want := decodedLine("/tmp/cat.png", message), `The message in 'cat.png' is "héllo "wörld" 🔒".`; got != want {
		t.Errorf("decodedLine = %s, want %s", got, want)
	}
	if got, want := removedLine(message), `"héllo "wörld" 🔒" message has been removed.`; got != want {
		t.Errorf("removedLine = %s, want %s", got, want)
	}
	if got, want := secretLine(app.Secret{ChunkType: "RuSt", Message: message}), `Key 'RuSt' has secret : "héllo "wörld" 🔒"`; got != want {
		t.Errorf("secretLine = %s, want %s", got, want)
	}
	if got, want := secretLine(app.Secret{ChunkType: "loCk", Stages: payload.StageAge}), `Key 'loCk' has an encrypted secret (age)`; got != want {
		t.Errorf("secretLine = %s, want %s", got, want)
	}
}

func TestArgCount(t *testing.T) {
	if got := argCount(2, 2); got != "2 arguments" {
		t.Errorf("argCount(2, 2) = %q", got)
	}
	if got := argCount(3, 4); got != "3 to 4 arguments" {
		t.Errorf("argCount(3, 4) = %q", got)
	}
}
