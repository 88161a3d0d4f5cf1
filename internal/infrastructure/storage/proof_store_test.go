package storage

import (
	"bytes"
	"os"
	"testing"
)

func TestProofStore_RoundTrip(t *testing.T) {
	store, err := NewProofStore(t.TempDir(), "test-secret")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	plain := []byte("proof of employment, signed")
	path, err := store.Save("letter.pdf", plain)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Contents on disk must not be the plaintext.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if bytes.Contains(raw, plain) {
		t.Fatalf("file stored in the clear")
	}

	got, err := store.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestProofStore_TamperDetected(t *testing.T) {
	store, err := NewProofStore(t.TempDir(), "test-secret")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	path, err := store.Save("letter.pdf", []byte("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	raw[len(raw)-1] ^= 0xff
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	if _, err := store.Load(path); err == nil {
		t.Fatalf("expected authentication failure on tampered file")
	}
}

func TestProofStore_WrongKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewProofStore(dir, "key-one")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	path, err := store.Save("letter.pdf", []byte("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	other, err := NewProofStore(dir, "key-two")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := other.Load(path); err == nil {
		t.Fatalf("expected decryption failure with wrong key")
	}
}
