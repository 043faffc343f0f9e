package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func TestCreateAndListFoundPosts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ana := mustUser(t, database, "ana@uni.edu")

	umbrella, err := CreateFoundPost(ctx, database, model.FoundPost{
		FinderName: "Bo", FinderEmail: "bo@uni.edu", ItemName: "Umbrella",
		Category: model.CategoryOther, LocationFound: "Cafeteria",
	})
	if err != nil {
		t.Fatalf("CreateFoundPost: %v", err)
	}
	if umbrella.Status != model.FoundStatusUnclaimed || umbrella.ClaimedBy != nil {
		t.Errorf("unexpected post: %+v", umbrella)
	}

	CreateFoundPost(ctx, database, model.FoundPost{
		FinderName: "Bo", FinderEmail: "bo@uni.edu", ItemName: "Calculator", Category: "Electronics",
	})

	if ok, err := ClaimFoundPost(ctx, database, umbrella.ID, ana.ID); err != nil || !ok {
		t.Fatalf("ClaimFoundPost: ok=%v err=%v", ok, err)
	}

	posts, err := ListFoundPosts(ctx, database, Filter{})
	if err != nil {
		t.Fatalf("ListFoundPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ItemName != "Calculator" {
		t.Errorf("expected unclaimed post first, got %q", posts[0].ItemName)
	}

	posts, _ = ListFoundPosts(ctx, database, Filter{Category: "Electronics"})
	if len(posts) != 1 || posts[0].ItemName != "Calculator" {
		t.Errorf("unexpected category filter result: %+v", posts)
	}

	posts, _ = ListFoundPosts(ctx, database, Filter{Query: "cafeteria"})
	if len(posts) != 1 || posts[0].ID != umbrella.ID {
		t.Errorf("expected location search to find umbrella, got %+v", posts)
	}

	posts, _ = ListFoundPosts(ctx, database, Filter{Status: model.FoundStatusUnclaimed})
	if len(posts) != 1 {
		t.Errorf("expected 1 unclaimed post, got %d", len(posts))
	}
}

func TestClaimFoundPostOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ana := mustUser(t, database, "ana@uni.edu")
	bo := mustUser(t, database, "bo@uni.edu")

	p, _ := CreateFoundPost(ctx, database, model.FoundPost{
		FinderName: "Cy", FinderEmail: "cy@uni.edu", ItemName: "Umbrella", Category: model.CategoryOther,
	})

	ok, err := ClaimFoundPost(ctx, database, p.ID, ana.ID)
	if err != nil || !ok {
		t.Fatalf("ClaimFoundPost: ok=%v err=%v", ok, err)
	}
	ok, err = ClaimFoundPost(ctx, database, p.ID, bo.ID)
	if err != nil || ok {
		t.Fatalf("expected second claim to fail, ok=%v err=%v", ok, err)
	}

	got, _ := GetFoundPost(ctx, database, p.ID)
	if got.Status != model.FoundStatusClaimed || got.ClaimedBy == nil || *got.ClaimedBy != ana.ID || got.ClaimedAt == nil {
		t.Errorf("expected post claimed by ana, got %+v", got)
	}

	ok, _ = ClaimFoundPost(ctx, database, 999, ana.ID)
	if ok {
		t.Error("expected claim of missing post to affect nothing")
	}
}

func TestClaimFoundPostConcurrent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := CreateFoundPost(ctx, database, model.FoundPost{
		FinderName: "Cy", FinderEmail: "cy@uni.edu", ItemName: "Umbrella", Category: model.CategoryOther,
	})

	var claimers []int64
	for i := range 8 {
		u := mustUser(t, database, string(rune('a'+i))+"@uni.edu")
		claimers = append(claimers, u.ID)
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for _, id := range claimers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ClaimFoundPost(ctx, database, p.ID, id)
			if err != nil {
				t.Errorf("ClaimFoundPost: %v", err)
				return
			}
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one successful claim, got %d", wins.Load())
	}
}
