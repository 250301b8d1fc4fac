package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/character"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewRedisStore(mr.Addr(), logger)
	return store, mr
}

func testSavedAdventure() *adventure.SavedAdventure {
	c := character.New(character.CreatePayload{Name: "Kael", Class: "Warrior"})
	return &adventure.SavedAdventure{
		ID:            uuid.New(),
		SavedAt:       time.Now().UTC(),
		CharacterName: c.Name,
		Character:     c,
		TurnCount:     3,
	}
}

func TestRedisStore_SaveAndGetAdventure(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	sa := testSavedAdventure()

	if err := store.SaveAdventure(ctx, sa); err != nil {
		t.Fatalf("Failed to save adventure: %v", err)
	}

	loaded, err := store.GetAdventure(ctx, sa.ID)
	if err != nil {
		t.Fatalf("Failed to load adventure: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected non-nil adventure")
	}
	if loaded.ID != sa.ID {
		t.Errorf("Expected ID %v, got %v", sa.ID, loaded.ID)
	}
	if loaded.CharacterName != "Kael" {
		t.Errorf("Expected character name 'Kael', got %q", loaded.CharacterName)
	}
	if loaded.TurnCount != 3 {
		t.Errorf("Expected turn count 3, got %d", loaded.TurnCount)
	}
}

func TestRedisStore_GetNonExistentAdventure(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	loaded, err := store.GetAdventure(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error for non-existent adventure, got: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil for non-existent adventure")
	}
}

func TestRedisStore_SaveIsUpsert(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	sa := testSavedAdventure()

	if err := store.SaveAdventure(ctx, sa); err != nil {
		t.Fatalf("Failed to save adventure: %v", err)
	}
	sa.TurnCount = 10
	if err := store.SaveAdventure(ctx, sa); err != nil {
		t.Fatalf("Failed to re-save adventure: %v", err)
	}

	all, err := store.ListAdventures(ctx)
	if err != nil {
		t.Fatalf("Failed to list adventures: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 adventure after re-save, got %d", len(all))
	}
	if all[0].TurnCount != 10 {
		t.Errorf("Expected refreshed turn count 10, got %d", all[0].TurnCount)
	}
}

func TestRedisStore_ListAdventures(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := store.SaveAdventure(ctx, testSavedAdventure()); err != nil {
			t.Fatalf("Failed to save adventure: %v", err)
		}
	}

	// An unrelated key must not show up in the listing.
	mr.Set("other:key", "value")

	all, err := store.ListAdventures(ctx)
	if err != nil {
		t.Fatalf("Failed to list adventures: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 adventures, got %d", len(all))
	}
}

func TestRedisStore_DeleteAdventure(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	sa := testSavedAdventure()
	if err := store.SaveAdventure(ctx, sa); err != nil {
		t.Fatalf("Failed to save adventure: %v", err)
	}

	if err := store.DeleteAdventure(ctx, sa.ID); err != nil {
		t.Fatalf("Failed to delete adventure: %v", err)
	}

	loaded, err := store.GetAdventure(ctx, sa.ID)
	if err != nil {
		t.Fatalf("Unexpected error after delete: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil after delete")
	}
}

func TestRedisStore_SaveValidation(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	if err := store.SaveAdventure(ctx, nil); err == nil {
		t.Error("Expected error for nil adventure")
	}
	if err := store.SaveAdventure(ctx, &adventure.SavedAdventure{}); err == nil {
		t.Error("Expected error for nil adventure id")
	}
}
