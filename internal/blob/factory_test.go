package blob

import (
	"strings"
	"testing"

	appcfg "mealdiary/internal/config"
)

type captureLogger struct {
	lines []string
}

func (l *captureLogger) Printf(format string, v ...any) {
	l.lines = append(l.lines, format)
}

func (l *captureLogger) contains(substr string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func fullS3Config() appcfg.S3Config {
	return appcfg.S3Config{
		Endpoint:          "https://s3.example.com",
		Region:            "eu-central-1",
		Bucket:            "meal-images",
		AccessKeyID:       "key",
		SecretAccessKey:   "secret",
		PresignTTLSeconds: 900,
	}
}

func TestNewBlobStore_LocalMode(t *testing.T) {
	store, mode, err := NewBlobStore(appcfg.BlobConfig{Mode: appcfg.BlobModeLocal}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Errorf("expected mode local, got %q", mode)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Errorf("expected a LocalStore, got %T", store)
	}
}

func TestNewBlobStore_EmptyModeDefaultsToLocal(t *testing.T) {
	store, mode, err := NewBlobStore(appcfg.BlobConfig{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Errorf("expected mode local, got %q", mode)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Errorf("expected a LocalStore, got %T", store)
	}
}

func TestNewBlobStore_AutoWithoutS3FallsBackToLocal(t *testing.T) {
	logger := &captureLogger{}

	store, mode, err := NewBlobStore(appcfg.BlobConfig{Mode: appcfg.BlobModeAuto}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Errorf("expected fallback to local, got %q", mode)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Errorf("expected a LocalStore, got %T", store)
	}
	if !logger.contains("s3_config_incomplete") {
		t.Error("expected an incomplete-config diagnostic")
	}
}

func TestNewBlobStore_AutoWithS3(t *testing.T) {
	store, mode, err := NewBlobStore(appcfg.BlobConfig{Mode: appcfg.BlobModeAuto, S3: fullS3Config()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != appcfg.BlobModeS3 {
		t.Errorf("expected mode s3, got %q", mode)
	}
	if _, ok := store.(*S3Store); !ok {
		t.Errorf("expected an S3Store, got %T", store)
	}
}

func TestNewBlobStore_S3ModeIncompleteFails(t *testing.T) {
	cfg := appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3:   appcfg.S3Config{Bucket: "meal-images"},
	}

	_, _, err := NewBlobStore(cfg, nil)
	if err == nil {
		t.Fatal("expected an error for incomplete forced s3 config")
	}
	if !strings.Contains(err.Error(), "S3_ENDPOINT") {
		t.Errorf("expected the missing keys in the error, got %v", err)
	}
}

func TestNewBlobStore_UnknownMode(t *testing.T) {
	if _, _, err := NewBlobStore(appcfg.BlobConfig{Mode: "ftp"}, nil); err == nil {
		t.Fatal("expected an error for unknown mode")
	}
}
