package sync

import (
	"context"
	"sync"
	"time"

	"taskdeck/internal/db/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Gateway is the persistence boundary the controller reads and writes
// through. *db.DB satisfies it; tests use fakes.
type Gateway interface {
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	CreateTask(ctx context.Context, userID string, in models.CreateTaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, id string, in models.UpdateTaskInput) (models.Task, error)
	ToggleTask(ctx context.Context, id string) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Controller runs every mutation through the same four phases:
// snapshot the cached scope, apply the guessed result locally, issue
// the gateway call, then either keep the guess or restore the
// snapshot. In both cases the scope is invalidated afterwards so the
// next read refetches authoritative state. Gateway failures are
// reported and rolled back; they never leave the controller unusable.
type Controller struct {
	gateway  Gateway
	cache    *Cache
	notifier Notifier
	log      *logrus.Logger

	mu    sync.Mutex
	reads map[string]*readHandle
}

type readHandle struct {
	cancel context.CancelFunc
}

// NewController wires a controller over the given gateway.
func NewController(gateway Gateway, cache *Cache, notifier Notifier, log *logrus.Logger) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		gateway:  gateway,
		cache:    cache,
		notifier: notifier,
		log:      log,
		reads:    make(map[string]*readHandle),
	}
}

// Cache exposes the underlying cache for subscribers.
func (c *Controller) Cache() *Cache {
	return c.cache
}

// List returns the task collection for scope. A fresh cached copy is
// served as-is; otherwise the gateway is consulted. If a mutation
// supersedes the read while it is in flight, the fetched result is
// discarded in favor of the optimistic cache state so a slow read can
// never clobber a newer local write.
func (c *Controller) List(ctx context.Context, scope string) ([]models.Task, error) {
	if tasks, fresh := c.cache.Get(scope); fresh {
		return tasks, nil
	}

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()
	handle := &readHandle{cancel: cancel}

	c.mu.Lock()
	if prev, ok := c.reads[scope]; ok {
		prev.cancel()
	}
	c.reads[scope] = handle
	c.mu.Unlock()

	tasks, err := c.gateway.ListTasks(rctx, scope)

	c.mu.Lock()
	if c.reads[scope] == handle {
		delete(c.reads, scope)
	}
	c.mu.Unlock()

	// Superseded: a mutation cancelled this read after the caller's
	// context was still live. Its result is stale by definition.
	if rctx.Err() != nil && ctx.Err() == nil {
		stale, _ := c.cache.Get(scope)
		return stale, nil
	}

	if err != nil {
		c.log.WithField("scope", scope).WithError(err).Warn("task list fetch failed")
		return nil, err
	}

	c.cache.Replace(scope, tasks)
	refreshed, _ := c.cache.Get(scope)
	return refreshed, nil
}

// cancelRead aborts any in-flight read for scope so its eventual
// result cannot overwrite the optimistic state applied next.
func (c *Controller) cancelRead(scope string) {
	c.mu.Lock()
	if handle, ok := c.reads[scope]; ok {
		handle.cancel()
		delete(c.reads, scope)
	}
	c.mu.Unlock()
}

// mutation pairs the local guess with the durable write for one op.
type mutation struct {
	op      Op
	apply   func(tasks []models.Task) []models.Task
	request func(ctx context.Context) error
}

// mutate is the four-phase protocol. The gateway call is the only
// blocking step; everything else operates on local state.
func (c *Controller) mutate(ctx context.Context, scope string, m mutation) error {
	c.cancelRead(scope)

	snapshot := c.cache.Snapshot(scope)
	c.cache.Apply(scope, m.apply(cloneTasks(snapshot)))

	err := m.request(ctx)
	if err != nil {
		c.cache.Restore(scope, snapshot)
		c.notifier.Failure(m.op, err)
	} else {
		c.notifier.Success(m.op)
	}

	// Always reconcile: the next read refetches authoritative state,
	// which also fixes up any imprecise optimistic guess.
	c.cache.Invalidate(scope)
	return err
}

// Create runs the create mutation for scope. The optimistic guess
// prepends a provisional task with a temporary id and the same
// defaults the store would assign.
func (c *Controller) Create(ctx context.Context, scope string, in models.CreateTaskInput) error {
	provisional := provisionalTask(scope, in)
	return c.mutate(ctx, scope, mutation{
		op: OpCreate,
		apply: func(tasks []models.Task) []models.Task {
			return append([]models.Task{provisional}, tasks...)
		},
		request: func(ctx context.Context) error {
			_, err := c.gateway.CreateTask(ctx, scope, in)
			return err
		},
	})
}

// Update runs a partial update mutation for scope.
func (c *Controller) Update(ctx context.Context, scope, id string, in models.UpdateTaskInput) error {
	return c.mutate(ctx, scope, mutation{
		op: OpUpdate,
		apply: func(tasks []models.Task) []models.Task {
			for i := range tasks {
				if tasks[i].ID == id {
					in.ApplyTo(&tasks[i], time.Now().UTC())
				}
			}
			return tasks
		},
		request: func(ctx context.Context) error {
			_, err := c.gateway.UpdateTask(ctx, id, in)
			return err
		},
	})
}

// Toggle flips the completion flag of a task in scope.
func (c *Controller) Toggle(ctx context.Context, scope, id string) error {
	return c.mutate(ctx, scope, mutation{
		op: OpToggle,
		apply: func(tasks []models.Task) []models.Task {
			for i := range tasks {
				if tasks[i].ID == id {
					tasks[i].Completed = !tasks[i].Completed
				}
			}
			return tasks
		},
		request: func(ctx context.Context) error {
			_, err := c.gateway.ToggleTask(ctx, id)
			return err
		},
	})
}

// Delete removes a task in scope.
func (c *Controller) Delete(ctx context.Context, scope, id string) error {
	return c.mutate(ctx, scope, mutation{
		op: OpDelete,
		apply: func(tasks []models.Task) []models.Task {
			out := tasks[:0]
			for _, t := range tasks {
				if t.ID != id {
					out = append(out, t)
				}
			}
			return out
		},
		request: func(ctx context.Context) error {
			return c.gateway.DeleteTask(ctx, id)
		},
	})
}

// provisionalTask builds the optimistic stand-in for a create before
// the store has assigned the real id.
func provisionalTask(scope string, in models.CreateTaskInput) models.Task {
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	ts := time.Now().UTC()
	return models.Task{
		ID:          "temp-" + uuid.NewString(),
		UserID:      scope,
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		Priority:    priority,
		DueDate:     in.DueDate,
		Tags:        append([]string(nil), tags...),
		ProjectID:   in.ProjectID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}
