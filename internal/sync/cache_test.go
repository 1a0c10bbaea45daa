package sync

import (
	"testing"

	"taskdeck/internal/db/models"
)

func TestCacheSnapshotIsIndependent(t *testing.T) {
	c := NewCache()
	c.Replace("alice", []models.Task{{ID: "1", Title: "one", Tags: []string{"a"}}})

	snap := c.Snapshot("alice")
	snap[0].Title = "mutated"
	snap[0].Tags[0] = "mutated"

	tasks, _ := c.Get("alice")
	if tasks[0].Title != "one" {
		t.Errorf("cache shared title with snapshot: %q", tasks[0].Title)
	}
	if tasks[0].Tags[0] != "a" {
		t.Errorf("cache shared tags backing array with snapshot: %q", tasks[0].Tags[0])
	}
}

func TestCacheInvalidateKeepsData(t *testing.T) {
	c := NewCache()
	c.Replace("alice", []models.Task{{ID: "1"}})

	c.Invalidate("alice")

	tasks, fresh := c.Get("alice")
	if fresh {
		t.Error("scope still fresh after invalidation")
	}
	if len(tasks) != 1 {
		t.Errorf("data dropped on invalidation: got %d tasks", len(tasks))
	}
}

func TestCacheUnknownScope(t *testing.T) {
	c := NewCache()
	tasks, fresh := c.Get("nobody")
	if fresh || tasks != nil {
		t.Errorf("unknown scope: got tasks=%v fresh=%v", tasks, fresh)
	}
}

func TestCacheSubscribe(t *testing.T) {
	c := NewCache()
	ch, cancel := c.Subscribe("alice")
	defer cancel()

	c.Replace("alice", []models.Task{{ID: "1"}})
	select {
	case <-ch:
	default:
		t.Fatal("no notification after Replace")
	}

	c.Invalidate("alice")
	select {
	case <-ch:
	default:
		t.Fatal("no notification after Invalidate")
	}

	// Other scopes do not notify this subscriber.
	c.Replace("bob", []models.Task{{ID: "2"}})
	select {
	case <-ch:
		t.Fatal("notified for a different scope")
	default:
	}
}
