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

// Package scheduler decides when workshop sessions are created, reused or
// evicted. Every capacity affecting step runs under the portal scoped lock
// and inside one store transaction, so concurrent requests cannot act on
// stale counts. Cluster side deployment is deferred to an after commit
// hook, never performed inline.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/workshopd/workshopd/internal/config"
	"github.com/workshopd/workshopd/internal/locking"
	"github.com/workshopd/workshopd/internal/metrics"
	"github.com/workshopd/workshopd/internal/store"
)

// AdmissionPolicy is the external membership and quota check consulted
// before a user may be given a session.
type AdmissionPolicy interface {
	SessionPermitted(ctx context.Context, portal *store.TrainingPortal, user string) bool
}

// AllowAll admits every user. The default when no policy is configured.
type AllowAll struct{}

// SessionPermitted always returns true.
func (AllowAll) SessionPermitted(context.Context, *store.TrainingPortal, string) bool {
	return true
}

// DeployFunc schedules the background deployment task for a session. It is
// only ever invoked after the session record has been committed.
type DeployFunc func(sessionName string)

// Scheduler allocates workshop sessions under nested capacity ceilings.
type Scheduler struct {
	store  *store.Store
	locks  *locking.KeyedMutex
	cfg    *config.Settings
	policy AdmissionPolicy
	deploy DeployFunc
}

// New creates a scheduler. A nil policy admits everyone.
func New(s *store.Store, locks *locking.KeyedMutex, cfg *config.Settings, policy AdmissionPolicy, deploy DeployFunc) *Scheduler {
	if policy == nil {
		policy = AllowAll{}
	}
	return &Scheduler{
		store:  s,
		locks:  locks,
		cfg:    cfg,
		policy: policy,
		deploy: deploy,
	}
}

// RequestSession resolves an allocation request for a user against a
// workshop environment. A nil session with a nil error means the request
// was denied: the user is not permitted or capacity is exhausted.
//
// Preference order: an existing session owned by the user, then a session
// from the environment's reserved pool, then a freshly created session if
// the nested capacity ceilings allow one.
func (s *Scheduler) RequestSession(ctx context.Context, environmentName, user, token string) (*store.Session, error) {
	// Resolve the owning portal first; the environment to portal binding
	// is immutable so this read does not need the lock.
	var portalName string
	err := s.store.Transaction(ctx, func(tx *store.Tx) error {
		environment, err := tx.Environment(environmentName)
		if err != nil {
			return fmt.Errorf("failed to look up environment %s: %w", environmentName, err)
		}
		portalName = environment.Portal.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Capacity ceilings nest: environment counts feed into the portal
	// wide maximum, so every path locks at portal granularity.
	var session *store.Session
	err = s.locks.WithLock(portalName, func() error {
		return s.store.Transaction(ctx, func(tx *store.Tx) error {
			environment, err := tx.Environment(environmentName)
			if err != nil {
				return fmt.Errorf("failed to look up environment %s: %w", environmentName, err)
			}
			session, err = s.resolve(ctx, tx, environment, user, token)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Scheduler) resolve(ctx context.Context, tx *store.Tx, environment *store.WorkshopEnvironment, user, token string) (*store.Session, error) {
	// Reuse an existing allocation. A token on a still pending session is
	// rebound only when none is held yet; repeated activation requests
	// must not churn the binding.
	existing, err := tx.AllocatedSessionForUser(environment.ID, user)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if token != "" && existing.IsPending() && existing.Token == "" {
			if err := tx.MarkPending(existing, user, token); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	if !s.policy.SessionPermitted(ctx, &environment.Portal, user) {
		metrics.SessionsDenied.WithLabelValues(environment.Name, "permission").Inc()
		return nil, nil
	}

	session, err := s.allocateReserved(tx, environment, user, token)
	if err != nil {
		return nil, err
	}
	if session != nil {
		metrics.SessionsAllocated.WithLabelValues(environment.Name).Inc()
		return session, nil
	}

	session, err = s.createForUser(tx, environment, user, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		metrics.SessionsDenied.WithLabelValues(environment.Name, "capacity").Inc()
		return nil, nil
	}
	metrics.SessionsAllocated.WithLabelValues(environment.Name).Inc()
	return session, nil
}

// allocateReserved claims a pre-warmed session from the environment's
// reserved pool and tops the pool back up.
func (s *Scheduler) allocateReserved(tx *store.Tx, environment *store.WorkshopEnvironment, user, token string) (*store.Session, error) {
	session, err := tx.AvailableSession(environment.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	switch {
	case token != "":
		err = tx.MarkPending(session, user, token)
	case session.State == store.SessionStarting:
		// The deployment task has not materialized the resource yet. Claim
		// the owner only; the task settles the state to Running once the
		// resource exists. Forcing Running here would make the task skip
		// the session and strand it without a resource.
		err = tx.MarkPending(session, user, "")
	default:
		err = tx.MarkRunning(session, user)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.replenish(tx, environment); err != nil {
		return nil, err
	}
	return session, nil
}

// FillReserve tops an environment's reserved pool up to its target. Called
// when an environment is first registered or its reservation settings
// change; allocation paths only ever top up one at a time.
func (s *Scheduler) FillReserve(ctx context.Context, environmentName string) error {
	var portalName string
	err := s.store.Transaction(ctx, func(tx *store.Tx) error {
		environment, err := tx.Environment(environmentName)
		if err != nil {
			return fmt.Errorf("failed to look up environment %s: %w", environmentName, err)
		}
		portalName = environment.Portal.Name
		return nil
	})
	if err != nil {
		return err
	}

	return s.locks.WithLock(portalName, func() error {
		return s.store.Transaction(ctx, func(tx *store.Tx) error {
			environment, err := tx.Environment(environmentName)
			if err != nil {
				return fmt.Errorf("failed to look up environment %s: %w", environmentName, err)
			}
			for {
				created, err := s.replenish(tx, environment)
				if err != nil {
					return err
				}
				if !created {
					return nil
				}
			}
		})
	})
}

// createForUser creates and claims a fresh session, honoring the nested
// capacity ceilings in order: environment capacity, then the portal wide
// sessions maximum.
func (s *Scheduler) createForUser(tx *store.Tx, environment *store.WorkshopEnvironment, user, token string) (*store.Session, error) {
	active, err := tx.ActiveSessionsCount(environment.ID)
	if err != nil {
		return nil, err
	}
	if active >= environment.Capacity {
		return nil, nil
	}

	portal := environment.Portal

	if portal.SessionsMaximum == 0 {
		return s.createAndClaim(tx, environment, user, token)
	}

	allocated, err := tx.AllocatedPortalSessionsCount(portal.ID)
	if err != nil {
		return nil, err
	}
	if allocated >= portal.SessionsMaximum {
		return nil, nil
	}

	// Allocated is below the cap. If live sessions portal wide are also
	// below it there is slack without touching anyone's reserve.
	activePortal, err := tx.ActivePortalSessionsCount(portal.ID)
	if err != nil {
		return nil, err
	}
	if activePortal < portal.SessionsMaximum {
		return s.createAndClaim(tx, environment, user, token)
	}

	// The portal is fully occupied by live sessions but not all of them
	// are allocated, so a reserve session of some other environment must
	// give way. Session age is the proxy for least active; no usage
	// statistics are tracked.
	victim, err := tx.OldestAvailablePortalSession(portal.ID)
	if err != nil {
		return nil, err
	}
	if victim == nil {
		return nil, nil
	}
	if err := tx.MarkStopping(victim); err != nil {
		return nil, err
	}
	metrics.SessionsEvicted.WithLabelValues(environment.Name).Inc()

	return s.createAndClaim(tx, environment, user, token)
}

func (s *Scheduler) createAndClaim(tx *store.Tx, environment *store.WorkshopEnvironment, user, token string) (*store.Session, error) {
	session, err := s.createSession(tx, environment)
	if err != nil {
		return nil, err
	}
	if err := tx.MarkPending(session, user, token); err != nil {
		return nil, err
	}
	return session, nil
}

// replenish performs the one shot reserved pool top up after a session
// left the pool. It creates at most one session and only when the
// environment wants reservations, the pool is below target, and both the
// environment and portal have headroom. Reports whether a session was
// created.
func (s *Scheduler) replenish(tx *store.Tx, environment *store.WorkshopEnvironment) (bool, error) {
	if environment.Reserved == 0 {
		return false, nil
	}

	available, err := tx.AvailableSessionsCount(environment.ID)
	if err != nil {
		return false, err
	}
	if available >= environment.Reserved {
		return false, nil
	}

	active, err := tx.ActiveSessionsCount(environment.ID)
	if err != nil {
		return false, err
	}
	if active >= environment.Capacity {
		return false, nil
	}

	portal := environment.Portal
	if portal.SessionsMaximum != 0 {
		allocated, err := tx.AllocatedPortalSessionsCount(portal.ID)
		if err != nil {
			return false, err
		}
		availablePortal, err := tx.AvailablePortalSessionsCount(portal.ID)
		if err != nil {
			return false, err
		}
		if allocated+availablePortal >= portal.SessionsMaximum {
			return false, nil
		}
	}

	if _, err := s.createSession(tx, environment); err != nil {
		return false, err
	}
	metrics.ReserveTopUps.WithLabelValues(environment.Name).Inc()
	return true, nil
}

// createSession mints the session record and its OAuth application record,
// and defers the cluster side deployment until the transaction commits.
func (s *Scheduler) createSession(tx *store.Tx, environment *store.WorkshopEnvironment) (*store.Session, error) {
	tally, err := tx.NextTally(environment)
	if err != nil {
		return nil, err
	}

	sessionID := fmt.Sprintf("s%03d", tally)
	name := fmt.Sprintf("%s-%s", environment.Name, sessionID)

	credential := &store.ClientCredential{
		SessionName:  name,
		ClientID:     name,
		Secret:       strings.ReplaceAll(uuid.NewString(), "-", ""),
		RedirectURIs: strings.Join(s.redirectURIs(name), " "),
	}
	if err := tx.CreateCredential(credential); err != nil {
		return nil, fmt.Errorf("failed to create client credential for %s: %w", name, err)
	}

	session := &store.Session{
		Name:          name,
		SessionID:     sessionID,
		State:         store.SessionStarting,
		Created:       time.Now().UTC(),
		EnvironmentID: environment.ID,
	}
	if err := tx.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session record %s: %w", name, err)
	}

	tx.AfterCommit(func() { s.deploy(name) })

	return session, nil
}

// redirectURIs enumerates the OAuth callback addresses the session's
// client must trust. Wildcards are not accepted, so the main session URL
// and each embedded application get their own entry.
func (s *Scheduler) redirectURIs(sessionName string) []string {
	uris := make([]string, 0, 5)
	for _, suffix := range []string{"", "console", "editor", "slides", "terminal"} {
		host := sessionName
		if suffix != "" {
			host = fmt.Sprintf("%s-%s", sessionName, suffix)
		}
		uris = append(uris, fmt.Sprintf("%s://%s.%s/oauth_callback",
			s.cfg.IngressProtocol, host, s.cfg.IngressDomain))
	}
	return uris
}
