// ABOUTME: Tests for the Interaction Store over an in-memory SQLite backend
// ABOUTME: Covers normalization, ownership, limit clamping, stats, and bulk delete batching
package storage_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
	"github.com/raajvamsy/plantopia/internal/storage/sqlite"
)

// fakeClock hands out strictly increasing timestamps
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newBackend(t *testing.T) *sqlite.Storage {
	t.Helper()
	b, err := sqlite.NewStorageInMemory(context.Background())
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func chat(user, msg string) *models.AIInteraction {
	return &models.AIInteraction{
		UserID:          user,
		InteractionType: models.InteractionGeneralChat,
		UserMessage:     msg,
		AIResponse:      "Answer: " + msg,
	}
}

func TestInteractionStore_CreateNormalizes(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInteractionStore(newBackend(t).Interactions(), newFakeClock().Now, nil)

	conf := 1.4
	got, err := store.Create(ctx, &models.AIInteraction{
		UserID:          "u-1",
		InteractionType: models.InteractionCareAdvice,
		UserMessage:     "  drooping leaves  ",
		AIResponse:      " water more ",
		ConfidenceScore: &conf,
		PlantID:         models.StringPtr("p-1"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Errorf("Create() should assign ID and CreatedAt: %+v", got)
	}
	if got.UserMessage != "drooping leaves" || got.AIResponse != "water more" {
		t.Errorf("text not trimmed: %q / %q", got.UserMessage, got.AIResponse)
	}
	if *got.ConfidenceScore != 1 {
		t.Errorf("ConfidenceScore = %v, want 1", *got.ConfidenceScore)
	}

	stored, err := store.GetByID(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if diff := cmp.Diff(got, stored); diff != "" {
		t.Errorf("stored mismatch (-created +stored):\n%s", diff)
	}
}

func TestInteractionStore_CreateRejectsInvalid(t *testing.T) {
	store := storage.NewInteractionStore(newBackend(t).Interactions(), nil, nil)

	_, err := store.Create(context.Background(), chat("u-1", "   "))
	if !models.IsValidation(err) {
		t.Errorf("Create(blank message) error = %v, want ValidationError", err)
	}
}

func TestInteractionStore_UpdateClampsAndChecksOwner(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInteractionStore(newBackend(t).Interactions(), newFakeClock().Now, nil)

	rec, err := store.Create(ctx, chat("owner", "is basil annual?"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	neg := -0.3
	fixed := "  Yes, basil is an annual.  "
	got, err := store.Update(ctx, rec.ID, "owner", models.InteractionUpdate{ConfidenceScore: &neg, AIResponse: &fixed})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ConfidenceScore == nil || *got.ConfidenceScore != 0 {
		t.Errorf("ConfidenceScore = %v, want 0", got.ConfidenceScore)
	}
	if got.AIResponse != "Yes, basil is an annual." {
		t.Errorf("AIResponse = %q, want trimmed", got.AIResponse)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Error("Update() must not change CreatedAt")
	}

	_, err = store.Update(ctx, rec.ID, "intruder", models.InteractionUpdate{AIResponse: &fixed})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Update(intruder) error = %v, want ErrNotFound", err)
	}

	blank := " "
	_, err = store.Update(ctx, rec.ID, "owner", models.InteractionUpdate{UserMessage: &blank})
	if !models.IsValidation(err) {
		t.Errorf("Update(blank message) error = %v, want ValidationError", err)
	}
}

func TestInteractionStore_DeleteEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInteractionStore(newBackend(t).Interactions(), nil, nil)

	rec, err := store.Create(ctx, chat("owner", "hello"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Delete(ctx, rec.ID, "intruder"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Delete(intruder) error = %v, want ErrNotFound", err)
	}
	if got, _ := store.GetByID(ctx, rec.ID); got == nil {
		t.Fatal("record removed by non-owner")
	}

	if err := store.Delete(ctx, rec.ID, "owner"); err != nil {
		t.Fatalf("Delete(owner) error = %v", err)
	}
	if got, _ := store.GetByID(ctx, rec.ID); got != nil {
		t.Error("record still present after owner delete")
	}
	if err := store.Delete(ctx, rec.ID, "owner"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestInteractionStore_ListClampsLimit(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInteractionStore(newBackend(t).Interactions(), newFakeClock().Now, nil)

	for i := 0; i < storage.MaxListLimit+5; i++ {
		if _, err := store.Create(ctx, chat("u-1", fmt.Sprintf("question %d", i))); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		limit int
		want  int
	}{
		{0, storage.DefaultListLimit},
		{-3, storage.DefaultListLimit},
		{10, 10},
		{1000, storage.MaxListLimit},
	}
	for _, tt := range tests {
		got, err := store.ListByUser(ctx, "u-1", nil, tt.limit)
		if err != nil {
			t.Fatalf("ListByUser() error = %v", err)
		}
		if len(got) != tt.want {
			t.Errorf("ListByUser(limit=%d) = %d rows, want %d", tt.limit, len(got), tt.want)
		}
	}

	newest, _ := store.ListByUser(ctx, "u-1", nil, 2)
	if newest[0].UserMessage != fmt.Sprintf("question %d", storage.MaxListLimit+4) {
		t.Errorf("first row = %q, want the newest", newest[0].UserMessage)
	}
	if !newest[0].CreatedAt.After(newest[1].CreatedAt) {
		t.Error("rows are not newest-first")
	}
}

func TestInteractionStore_SearchAndTypeFilter(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInteractionStore(newBackend(t).Interactions(), newFakeClock().Now, nil)

	_, _ = store.Create(ctx, chat("u-1", "Best soil for Orchids?"))
	_, _ = store.Create(ctx, chat("u-1", "tomato blight"))
	_, _ = store.Create(ctx, chat("u-2", "orchid roots"))

	got, err := store.Search(ctx, "u-1", "  orchid ", nil, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].UserMessage != "Best soil for Orchids?" {
		t.Errorf("Search() = %+v", got)
	}

	bad := models.InteractionType("weather")
	if _, err := store.Search(ctx, "u-1", "x", &bad, 0); !models.IsValidation(err) {
		t.Errorf("Search(bad type) error = %v, want ValidationError", err)
	}
}

func TestInteractionStore_BlankScopeIsRejected(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	clock := newFakeClock()
	store := storage.NewInteractionStore(backend.Interactions(), clock.Now, nil)

	for _, user := range []string{"alice", "bob"} {
		in := chat(user, "secret of "+user)
		in.PlantID = models.StringPtr("p-" + user)
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("Create(%s) error = %v", user, err)
		}
	}

	tests := []struct {
		name string
		call func() ([]models.AIInteraction, error)
	}{
		{"list by empty user", func() ([]models.AIInteraction, error) { return store.ListByUser(ctx, "", nil, 10) }},
		{"list by blank user", func() ([]models.AIInteraction, error) { return store.ListByUser(ctx, "  ", nil, 10) }},
		{"list by empty plant", func() ([]models.AIInteraction, error) { return store.ListByPlant(ctx, "", 10) }},
		{"search empty user", func() ([]models.AIInteraction, error) { return store.Search(ctx, "", "secret", nil, 10) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call()
			if !models.IsValidation(err) {
				t.Errorf("error = %v, want ValidationError", err)
			}
			if len(got) != 0 {
				t.Errorf("returned %d rows of other users", len(got))
			}
		})
	}

	if _, err := storage.NewExporter(backend, clock.Now).Export(ctx, ""); !models.IsValidation(err) {
		t.Errorf("Export(\"\") error = %v, want ValidationError", err)
	}

	got, err := store.ListByPlant(ctx, "p-bob", 10)
	if err != nil {
		t.Fatalf("ListByPlant() error = %v", err)
	}
	if len(got) != 1 || got[0].UserID != "bob" {
		t.Errorf("ListByPlant(p-bob) = %+v, want bob's row only", got)
	}
}

func TestInteractionStore_Stats(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := storage.NewInteractionStore(newBackend(t).Interactions(), clock.Now, nil)

	stats, err := store.Stats(ctx, "u-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalInteractions != 0 || stats.AverageConfidence != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	old := &models.AIInteraction{
		UserID: "u-1", InteractionType: models.InteractionCareAdvice,
		UserMessage: "old", AIResponse: "old", ConfidenceScore: ptr(0.4),
	}
	if _, err := store.Create(ctx, old); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	clock.t = clock.t.Add(10 * 24 * time.Hour)

	recent := &models.AIInteraction{
		UserID: "u-1", InteractionType: models.InteractionPlantIdentification,
		UserMessage: "new", AIResponse: "new", ConfidenceScore: ptr(0.8),
	}
	if _, err := store.Create(ctx, recent); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, chat("u-1", "no score")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stats, err = store.Stats(ctx, "u-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	want := &models.InteractionStats{
		TotalInteractions: 3,
		ByType: map[models.InteractionType]int{
			models.InteractionPlantIdentification: 1,
			models.InteractionCareAdvice:          1,
			models.InteractionDiseaseDiagnosis:    0,
			models.InteractionGeneralChat:         1,
		},
		AverageConfidence: 0.6,
		RecentCount:       2,
	}
	opt := cmp.Comparer(func(a, b float64) bool { return a-b < 1e-9 && b-a < 1e-9 })
	if diff := cmp.Diff(want, stats, opt); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

// flakyRepo fails every DeleteInteractions call whose batch contains failID
type flakyRepo struct {
	storage.InteractionRepository
	failID string
	calls  []int
}

func (f *flakyRepo) DeleteInteractions(ctx context.Context, userID string, ids []string) (int, error) {
	f.calls = append(f.calls, len(ids))
	for _, id := range ids {
		if id == f.failID {
			return 0, errors.New("connection reset")
		}
	}
	return f.InteractionRepository.DeleteInteractions(ctx, userID, ids)
}

func TestInteractionStore_BulkDeletePartialFailure(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	seed := storage.NewInteractionStore(backend.Interactions(), newFakeClock().Now, nil)

	var ids []string
	for i := 0; i < 60; i++ {
		rec, err := seed.Create(ctx, chat("u-1", fmt.Sprintf("m%d", i)))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, rec.ID)
	}
	foreign, _ := seed.Create(ctx, chat("u-2", "not yours"))

	repo := &flakyRepo{InteractionRepository: backend.Interactions(), failID: ids[30]}
	store := storage.NewInteractionStore(repo, nil, nil)

	request := append([]string{}, ids...)
	request = append(request, ids[0], foreign.ID, "missing")
	got := store.BulkDelete(ctx, "u-1", request)

	// batches: [0..24] ok, [25..49] fails, [50..59 + foreign + missing] deletes 10 of 12
	want := models.BulkDeleteResult{Success: 35, Failed: 27}
	if got != want {
		t.Errorf("BulkDelete() = %+v, want %+v", got, want)
	}
	if diff := cmp.Diff([]int{25, 25, 12}, repo.calls); diff != "" {
		t.Errorf("batch sizes mismatch (-want +got):\n%s", diff)
	}

	if left, _ := store.GetByID(ctx, ids[30]); left == nil {
		t.Error("ids in the failed batch should remain")
	}
	if left, _ := store.GetByID(ctx, foreign.ID); left == nil {
		t.Error("another user's interaction must not be deleted")
	}
}

func ptr(f float64) *float64 { return &f }
