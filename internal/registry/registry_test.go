package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/propline/estatedesk/internal/domain"
)

func TestPutAllThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := New(path)

	descriptors := []domain.SourceDescriptor{
		{Type: domain.DatasetProperties, URL: "https://docs.google.com/spreadsheets/d/abc123/edit", Label: "Properties DB", ConfiguredAt: time.Now()},
		{Type: domain.DatasetClients, URL: "https://docs.google.com/spreadsheets/d/def456/edit", Label: "Global Leads", ConfiguredAt: time.Now()},
	}
	if err := reg.PutAll(descriptors); err != nil {
		t.Fatalf("put all returned error: %v", err)
	}

	desc, ok, err := reg.Get(domain.DatasetClients)
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected clients descriptor to be configured")
	}
	if desc.Label != "Global Leads" {
		t.Fatalf("unexpected label %q", desc.Label)
	}

	if _, ok, _ := reg.Get(domain.DatasetTransactions); ok {
		t.Fatalf("transactions should not be configured")
	}
}

func TestPutAllReplacesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := New(path)

	first := []domain.SourceDescriptor{
		{Type: domain.DatasetProperties, URL: "https://docs.google.com/spreadsheets/d/abc123/edit"},
	}
	if err := reg.PutAll(first); err != nil {
		t.Fatalf("first put returned error: %v", err)
	}

	second := []domain.SourceDescriptor{
		{Type: domain.DatasetUsers, URL: "https://docs.google.com/spreadsheets/d/xyz789/edit"},
	}
	if err := reg.PutAll(second); err != nil {
		t.Fatalf("second put returned error: %v", err)
	}

	if _, ok, _ := reg.Get(domain.DatasetProperties); ok {
		t.Fatalf("properties descriptor should have been replaced away")
	}
	if _, ok, _ := reg.Get(domain.DatasetUsers); !ok {
		t.Fatalf("users descriptor should be present")
	}
}

func TestDuplicateTypeShadowsEarlierEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := New(path)

	descriptors := []domain.SourceDescriptor{
		{Type: domain.DatasetClients, URL: "https://docs.google.com/spreadsheets/d/old111/edit", Label: "old"},
		{Type: domain.DatasetClients, URL: "https://docs.google.com/spreadsheets/d/new222/edit", Label: "new"},
	}
	if err := reg.PutAll(descriptors); err != nil {
		t.Fatalf("put all returned error: %v", err)
	}

	desc, ok, err := reg.Get(domain.DatasetClients)
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if desc.Label != "new" {
		t.Fatalf("expected later entry to shadow earlier, got %q", desc.Label)
	}
}

func TestPutAllRejectsInvalidDescriptors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := New(path)

	if err := reg.PutAll([]domain.SourceDescriptor{{Type: "listings", URL: "https://example.com"}}); err == nil {
		t.Fatalf("expected error for unknown dataset type")
	}
	if err := reg.PutAll([]domain.SourceDescriptor{{Type: domain.DatasetClients}}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("rejected put should not write the registry file")
	}
}

func TestMissingFileIsEmptyRegistry(t *testing.T) {
	reg := New(filepath.Join(t.TempDir(), "registry.json"))

	descriptors, err := reg.All()
	if err != nil {
		t.Fatalf("all returned error: %v", err)
	}
	if len(descriptors) != 0 {
		t.Fatalf("expected empty registry, got %d entries", len(descriptors))
	}
}

func TestFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	reg := New(path)

	if err := reg.PutAll([]domain.SourceDescriptor{
		{Type: domain.DatasetActivity, URL: "https://docs.google.com/spreadsheets/d/log000/edit", Label: "Activity Logs"},
	}); err != nil {
		t.Fatalf("put all returned error: %v", err)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read registry file: %v", err)
	}
	for _, want := range []string{`"sheets"`, `"version"`, `"last_updated"`, `"activity"`} {
		if !strings.Contains(string(payload), want) {
			t.Fatalf("registry file missing %s: %s", want, payload)
		}
	}
}
