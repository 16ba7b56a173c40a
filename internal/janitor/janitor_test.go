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

package janitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/workshopd/workshopd/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := store.New(db)
	require.NoError(t, s.Migrate())
	return s
}

func seedSession(t *testing.T, s *store.Store, name string, state store.SessionState, created time.Time) {
	t.Helper()

	err := s.Transaction(context.Background(), func(tx *store.Tx) error {
		portal, err := tx.Portal("lab-portal")
		if err != nil {
			portal = &store.TrainingPortal{Name: "lab-portal"}
			if err := tx.SavePortal(portal); err != nil {
				return err
			}
		}
		environment, err := tx.Environment("lab-w01")
		if err != nil {
			environment = &store.WorkshopEnvironment{Name: "lab-w01", PortalID: portal.ID, Capacity: 5}
			if err := tx.SaveEnvironment(environment); err != nil {
				return err
			}
		}
		return tx.CreateSession(&store.Session{
			Name:          name,
			SessionID:     name,
			State:         state,
			Created:       created,
			EnvironmentID: environment.ID,
		})
	})
	require.NoError(t, err)
}

func TestSweepResubmitsStuckSessions(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	seedSession(t, s, "lab-w01-s001", store.SessionStarting, now.Add(-10*time.Minute))
	seedSession(t, s, "lab-w01-s002", store.SessionStarting, now.Add(-30*time.Second))
	seedSession(t, s, "lab-w01-s003", store.SessionWaiting, now.Add(-10*time.Minute))

	var submitted []string
	sweeper := NewSweeper(s, time.Minute, 5*time.Minute, func(name string) {
		submitted = append(submitted, name)
	})

	require.NoError(t, sweeper.Sweep(context.Background()))

	// Only the session past the grace period and still starting goes
	// back onto the queue.
	assert.Equal(t, []string{"lab-w01-s001"}, submitted)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	s := newTestStore(t)
	sweeper := NewSweeper(s, 10*time.Millisecond, time.Minute, func(string) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
