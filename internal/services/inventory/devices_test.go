package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/xelth-com/eckassetgo/internal/models"
)

func TestSaveDevice_AssignsTokenAndBarcode(t *testing.T) {
	svc, _ := newTestService(t)

	device := &models.Device{Category: models.CategoryDesktop}
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to save device: %v", err)
	}

	if device.Token == "" {
		t.Error("Expected a token on the saved device")
	}
	if device.UniqueID == "" {
		t.Error("Expected a unique id on the saved device")
	}
	if device.BarcodePath == "" {
		t.Fatal("Expected a barcode path on the saved device")
	}

	if _, err := os.Stat(filepath.Join(svc.mediaDir, device.BarcodePath)); err != nil {
		t.Errorf("Barcode image not written: %v", err)
	}
}

func TestSaveDevice_KeepsExistingToken(t *testing.T) {
	svc, _ := newTestService(t)

	device := &models.Device{Category: models.CategoryLaptop}
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to save device: %v", err)
	}
	token := device.Token

	device.Location = "HQ"
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to re-save device: %v", err)
	}
	if device.Token != token {
		t.Errorf("Token churned on re-save: %s -> %s", token, device.Token)
	}
}

func TestGenerateToken_SkipsTakenCandidates(t *testing.T) {
	svc, db := newTestService(t)

	taken := &models.Device{
		Category: models.CategoryDesktop,
		UniqueID: "uid-taken",
		Token:    "token-taken",
	}
	if err := db.Create(taken).Error; err != nil {
		t.Fatalf("Failed to seed device: %v", err)
	}

	// First candidate collides with the seeded token, second is free
	svc.newToken = tokenSequence(t, "uid-new", "token-taken", "token-free")

	device := &models.Device{Category: models.CategoryDesktop}
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to save device: %v", err)
	}
	if device.Token != "token-free" {
		t.Errorf("Expected token-free, got %s", device.Token)
	}
}

func TestGenerateToken_ExhaustsRetries(t *testing.T) {
	svc, db := newTestService(t)

	taken := &models.Device{
		Category: models.CategoryDesktop,
		UniqueID: "uid-taken",
		Token:    "token-taken",
	}
	if err := db.Create(taken).Error; err != nil {
		t.Fatalf("Failed to seed device: %v", err)
	}

	// Every candidate collides
	svc.newToken = func() string { return "token-taken" }

	device := &models.Device{Category: models.CategoryDesktop, UniqueID: "uid-new"}
	err := svc.SaveDevice(device)
	if !errors.Is(err, ErrTokenExhausted) {
		t.Fatalf("Expected ErrTokenExhausted, got %v", err)
	}
}

func TestSaveDevice_RetriesOnDuplicateToken(t *testing.T) {
	svc, db := newTestService(t)

	taken := &models.Device{
		Category: models.CategoryDesktop,
		UniqueID: "uid-taken",
		Token:    "token-taken",
	}
	if err := db.Create(taken).Error; err != nil {
		t.Fatalf("Failed to seed device: %v", err)
	}

	// Token is preset so the uniqueness pre-check is skipped and the
	// insert itself collides. The save loop must swap in a fresh one.
	svc.newToken = tokenSequence(t, "uid-new", "token-free")

	device := &models.Device{
		Category: models.CategoryDesktop,
		Token:    "token-taken",
	}
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to save device: %v", err)
	}
	if device.Token != "token-free" {
		t.Errorf("Expected a fresh token after collision, got %s", device.Token)
	}
}

func TestSaveDevice_HourlyThrottle(t *testing.T) {
	svc, _ := newTestService(t)

	t0 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	device := &models.Device{Category: models.CategoryDesktop}
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to save device: %v", err)
	}
	if device.LastUpdatedHourly == nil || !device.LastUpdatedHourly.Equal(t0) {
		t.Fatalf("Expected hourly stamp %v, got %v", t0, device.LastUpdatedHourly)
	}

	// Inside the hour: stamp must hold still
	svc.now = func() time.Time { return t0.Add(30 * time.Minute) }
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to re-save device: %v", err)
	}
	if !device.LastUpdatedHourly.Equal(t0) {
		t.Errorf("Hourly stamp moved inside the hour: %v", device.LastUpdatedHourly)
	}

	// Past the hour: stamp must refresh
	t2 := t0.Add(61 * time.Minute)
	svc.now = func() time.Time { return t2 }
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to re-save device: %v", err)
	}
	if !device.LastUpdatedHourly.Equal(t2) {
		t.Errorf("Expected hourly stamp %v, got %v", t2, device.LastUpdatedHourly)
	}
}

func TestUpdateDepartment(t *testing.T) {
	svc, _ := newTestService(t)

	device := &models.Device{Category: models.CategoryDesktop}
	if err := svc.SaveDevice(device); err != nil {
		t.Fatalf("Failed to save device: %v", err)
	}
	token := device.Token

	if err := svc.UpdateDepartment(device.ID, "Finance"); err != nil {
		t.Fatalf("Failed to update department: %v", err)
	}

	got, err := svc.GetDevice(device.ID)
	if err != nil {
		t.Fatalf("Failed to reload device: %v", err)
	}
	if got.Department != "Finance" {
		t.Errorf("Expected department Finance, got %s", got.Department)
	}
	if got.Token != token {
		t.Errorf("Department update must not touch the token: %s -> %s", token, got.Token)
	}
}

func TestUpdateDepartment_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.UpdateDepartment(9999, "Finance")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestListGroupedByOwner(t *testing.T) {
	svc, db := newTestService(t)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// Alice holds more devices than a group may show
	for i := 0; i < maxPerOwnerGroup+3; i++ {
		device := &models.Device{Category: models.CategoryDesktop, OwnerID: &alice.ID}
		if err := svc.SaveDevice(device); err != nil {
			t.Fatalf("Failed to save device for alice: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		device := &models.Device{Category: models.CategoryLaptop, OwnerID: &bob.ID}
		if err := svc.SaveDevice(device); err != nil {
			t.Fatalf("Failed to save device for bob: %v", err)
		}
	}
	unowned := &models.Device{Category: models.CategoryDesktop}
	if err := svc.SaveDevice(unowned); err != nil {
		t.Fatalf("Failed to save unowned device: %v", err)
	}

	groups, err := svc.ListGroupedByOwner()
	if err != nil {
		t.Fatalf("Failed to list groups: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}

	byOwner := map[string][]models.Device{}
	for _, g := range groups {
		name := ""
		if g.Owner != nil {
			name = g.Owner.Username
		}
		byOwner[name] = g.Devices
	}

	if len(byOwner["alice"]) != maxPerOwnerGroup {
		t.Errorf("Expected alice's group capped at %d, got %d", maxPerOwnerGroup, len(byOwner["alice"]))
	}
	if len(byOwner["bob"]) != 2 {
		t.Errorf("Expected 2 devices for bob, got %d", len(byOwner["bob"]))
	}
	if len(byOwner[""]) != 1 {
		t.Errorf("Expected 1 unowned device, got %d", len(byOwner[""]))
	}
}
