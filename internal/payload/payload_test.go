package payload_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/1ureka/pngme/internal/payload"
)

// testWorkFactor keeps scrypt fast in tests.
const testWorkFactor = 10

func TestSealOpenRoundTrip(t *testing.T) {
	message := []byte(strings.Repeat("This is where your secret message will be! ", 20))

	testCases := []struct {
		name   string
		opts   payload.Options
		stages payload.Stage
		sealed bool
	}{
		{"raw", payload.Options{}, 0, false},
		{"zstd", payload.Options{Compress: true}, payload.StageZstd, true},
		{"age", payload.Options{Passphrase: "hunter2", WorkFactor: testWorkFactor}, payload.StageAge, true},
		{"zstd+age", payload.Options{Compress: true, Passphrase: "hunter2", WorkFactor: testWorkFactor}, payload.StageZstd | payload.StageAge, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sealed, err := payload.Seal(message, tc.opts)
			if err != nil {
				t.Fatalf("Seal failed: %v", err)
			}

			stages, isSealed, err := payload.Stages(sealed)
			if err != nil {
				t.Fatalf("Stages failed: %v", err)
			}
			if isSealed != tc.sealed || stages != tc.stages {
				t.Errorf("Stages() = %s, %v; want %s, %v", stages, isSealed, tc.stages, tc.sealed)
			}

			opened, err := payload.Open(sealed, tc.opts.Passphrase)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if !bytes.Equal(opened, message) {
				t.Errorf("Open() returned %d bytes, want the original %d", len(opened), len(message))
			}
		})
	}
}

func TestSealRawIsUnchanged(t *testing.T) {
	message := []byte("hello")
	sealed, err := payload.Seal(message, payload.Options{})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !bytes.Equal(sealed, message) {
		t.Errorf("Seal() = %q, want the raw message", sealed)
	}
}

func TestSealCompressShrinksRepetitiveText(t *testing.T) {
	message := bytes.Repeat([]byte("secret "), 500)
	sealed, err := payload.Seal(message, payload.Options{Compress: true})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if len(sealed) >= len(message) {
		t.Errorf("compressed payload is %d bytes, message is %d", len(sealed), len(message))
	}
}

func TestOpenPassphraseErrors(t *testing.T) {
	sealed, err := payload.Seal([]byte("hello"), payload.Options{Passphrase: "right", WorkFactor: testWorkFactor})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, err := payload.Open(sealed, ""); !errors.Is(err, payload.ErrPassphrase) {
		t.Errorf("Open without passphrase error = %v, want ErrPassphrase", err)
	}
	if _, err := payload.Open(sealed, "wrong"); !errors.Is(err, payload.ErrPassphrase) {
		t.Errorf("Open with wrong passphrase error = %v, want ErrPassphrase", err)
	}
}

func TestStagesMalformedEnvelope(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"magic only", []byte{0x00, 'p', 'm'}},
		{"no stages", []byte{0x00, 'p', 'm', 0x00, 'x'}},
		{"unknown stage", []byte{0x00, 'p', 'm', 0x80, 'x'}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := payload.Stages(tc.data); !errors.Is(err, payload.ErrEnvelope) {
				t.Fatalf("Stages error = %v, want ErrEnvelope", err)
			}
			if _, err := payload.Open(tc.data, ""); !errors.Is(err, payload.ErrEnvelope) {
				t.Fatalf("Open error = %v, want ErrEnvelope", err)
			}
		})
	}
}

func TestOpenCorruptCompressedBody(t *testing.T) {
	data := []byte{0x00, 'p', 'm', byte(payload.StageZstd), 0xDE, 0xAD, 0xBE, 0xEF}
	if _, err := payload.Open(data, ""); err == nil {
		t.Fatal("Open succeeded on a corrupt zstd body")
	}
}

func TestStageString(t *testing.T) {
	testCases := map[payload.Stage]string{
		0:                                    "raw",
		payload.StageZstd:                    "zstd",
		payload.StageAge:                     "age",
		payload.StageZstd | payload.StageAge: "zstd+age",
	}
	for stage, want := range testCases {
		if got := stage.String(); got != want {
			t.Errorf("Stage(%d).String() = %q, want %q", stage, got, want)
		}
	}
}

func TestDigest(t *testing.T) {
	a := payload.Digest([]byte("hello"))
	if len(a) != 2*payload.DigestSize {
		t.Fatalf("Digest length = %d, want %d", len(a), 2*payload.DigestSize)
	}
	if a != payload.Digest([]byte("hello")) {
		t.Error("Digest is not deterministic")
	}
	if a == payload.Digest([]byte("hellp")) {
		t.Error("Digest collided for different inputs")
	}
}

func TestSealRejectsWorkFactorAboveDecryptLimit(t *testing.T) {
	for _, factor := range []int{payload.MaxWorkFactor + 1, 30, -1} {
		_, err := payload.Seal([]byte("hello"), payload.Options{Passphrase: "pw", WorkFactor: factor})
		if !errors.Is(err, payload.ErrWorkFactor) {
			t.Errorf("Seal with work factor %d error = %v, want ErrWorkFactor", factor, err)
		}
	}
}
