// Copyright 2026 The Workshopd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tasks runs named background work with at-least-once semantics.
// Task functions must be idempotent with respect to re-delivery; a failed
// task is re-queued with a fixed backoff until its attempt budget runs out.
package tasks

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	defaultQueueSize   = 256
	defaultBackoff     = 30 * time.Second
	defaultMaxAttempts = 5
)

// Task is a named unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Options tunes runner behavior; zero values select defaults.
type Options struct {
	QueueSize   int
	Backoff     time.Duration
	MaxAttempts int
}

// Runner executes submitted tasks on a single worker goroutine. It
// implements the controller-runtime Runnable interface so it can be added
// to a manager and share its lifecycle.
type Runner struct {
	queue       chan item
	done        chan struct{}
	backoff     time.Duration
	maxAttempts int
}

type item struct {
	task    Task
	attempt int
}

// NewRunner creates a task runner.
func NewRunner(opts Options) *Runner {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	return &Runner{
		queue:       make(chan item, opts.QueueSize),
		done:        make(chan struct{}),
		backoff:     opts.Backoff,
		maxAttempts: opts.MaxAttempts,
	}
}

// Submit queues a task for execution. Never blocks the caller; if the
// queue is full the send completes from a goroutine.
func (r *Runner) Submit(task Task) {
	r.enqueue(item{task: task, attempt: 1})
}

func (r *Runner) enqueue(it item) {
	select {
	case r.queue <- it:
	default:
		go func() {
			select {
			case r.queue <- it:
			case <-r.done:
			}
		}()
	}
}

// Start runs the worker loop until the context is canceled.
func (r *Runner) Start(ctx context.Context) error {
	logger := log.FromContext(ctx).WithName("tasks")
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case it := <-r.queue:
			err := runTask(ctx, it.task)
			if err == nil {
				continue
			}

			if it.attempt >= r.maxAttempts {
				logger.Error(err, "task failed permanently",
					"task", it.task.Name, "attempts", it.attempt)
				continue
			}

			logger.Error(err, "task failed, will retry",
				"task", it.task.Name, "attempt", it.attempt, "backoff", r.backoff)

			retry := it
			retry.attempt++
			timer := time.AfterFunc(r.backoff, func() { r.enqueue(retry) })
			go func() {
				<-ctx.Done()
				timer.Stop()
			}()
		}
	}
}

// runTask executes the task, converting a panic into an error so one bad
// task cannot take the worker, and with it the manager, down.
func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, rec)
		}
	}()
	return task.Run(ctx)
}
