package krypto_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/pawmatch/pawmatch/internal/krypto"
)

const rawKey = "568554094ec040ab8a6b3e6d7cc138b0dc855f39ba1aeb2ffc903f7260b3a452"

func Test_ParseKey(t *testing.T) {
	t.Run("ok, valid key", func(t *testing.T) {
		key, err := krypto.ParseKey(rawKey)
		if err != nil {
			t.Fatalf("failed to parse key: %v", err)
		}

		want, err := hex.DecodeString(rawKey)
		if err != nil {
			t.Fatalf("failed to decode hex: %v", err)
		}

		if !bytes.Equal(key.SecretValue(), want) {
			t.Errorf("got\n%x\nwant\n%x", key.SecretValue(), want)
		}
	})

	fails := map[string]string{
		"fail, empty":     "",
		"fail, too short": "568554094ec040ab",
		"fail, too long":  rawKey + "ab",
		"fail, non-hex":   strings.Repeat("zz", 32),
	}

	for name, raw := range fails {
		t.Run(name, func(t *testing.T) {
			_, err := krypto.ParseKey(raw)
			if !errors.Is(err, krypto.ErrInvalidKey) {
				t.Errorf("expected error %v, got %v", krypto.ErrInvalidKey, err)
			}
		})
	}
}

func Test_Key_PreventExposure(t *testing.T) {
	key, err := krypto.ParseKey(rawKey)
	if err != nil {
		t.Fatalf("failed to parse key: %v", err)
	}

	assert := func(t *testing.T, s string) {
		t.Helper()
		if s != krypto.SecretMarker {
			t.Errorf("wanted\n%s\ngot\n%s\n", krypto.SecretMarker, s)
		}
	}

	t.Run("ok, fmt", func(t *testing.T) {
		assert(t, fmt.Sprintf("%s", key)) //nolint:gosimple
		assert(t, fmt.Sprintf("%v", key))
		assert(t, fmt.Sprintf("%#v", key))
	})

	t.Run("ok, marshal as text", func(t *testing.T) {
		b, err := key.MarshalText()
		if err != nil {
			t.Fatalf("failed to marshal as text: %v", err)
		}

		assert(t, string(b))
	})

	t.Run("ok, log output", func(t *testing.T) {
		var buf bytes.Buffer

		logger := slog.New(slog.NewTextHandler(&buf, nil))
		logger.Info("attempting to log a key", "key", key)

		s := buf.String()
		if !strings.Contains(s, krypto.SecretMarker) {
			t.Errorf("log output\n%s\ndoes not contain secret marker: %s", s, krypto.SecretMarker)
		}

		if strings.Contains(s, rawKey) {
			t.Errorf("log output\n%s\ncontains raw key", s)
		}
	})
}
