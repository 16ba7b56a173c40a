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

// Package deploy materializes scheduled workshop sessions as cluster
// resources. Session records are created by the scheduler before any
// cluster call happens; the deployer runs afterwards, from the background
// task runner, and settles the session into its steady state.
package deploy

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/config"
	"github.com/workshopd/workshopd/internal/locking"
	"github.com/workshopd/workshopd/internal/store"
)

// Deployer creates WorkshopSession resources for sessions the scheduler
// has committed to the store.
type Deployer struct {
	client client.Client
	store  *store.Store
	locks  *locking.KeyedMutex
	cfg    *config.Settings
}

// New creates a deployer sharing the scheduler's store and lock set.
func New(c client.Client, s *store.Store, locks *locking.KeyedMutex, cfg *config.Settings) *Deployer {
	return &Deployer{
		client: c,
		store:  s,
		locks:  locks,
		cfg:    cfg,
	}
}

// Deploy creates the cluster resource for a session and moves the record
// out of its starting state. Safe to call more than once: a session that
// already left the starting state is left untouched, and an already
// existing cluster resource is treated as success. Any other failure is
// returned so the task runner retries the whole thing.
func (d *Deployer) Deploy(ctx context.Context, sessionName string) error {
	log := logf.FromContext(ctx).WithValues("session", sessionName)

	var portalName string
	err := d.store.Transaction(ctx, func(tx *store.Tx) error {
		session, err := tx.Session(sessionName)
		if err != nil {
			return fmt.Errorf("failed to look up session %s: %w", sessionName, err)
		}
		portalName = session.Environment.Portal.Name
		return nil
	})
	if err != nil {
		return err
	}

	return d.locks.WithLock(portalName, func() error {
		return d.store.Transaction(ctx, func(tx *store.Tx) error {
			session, err := tx.Session(sessionName)
			if err != nil {
				return fmt.Errorf("failed to look up session %s: %w", sessionName, err)
			}

			// A delayed retry can observe a session that was cancelled
			// or already deployed in the meantime. Creating a resource
			// for it now would leak it.
			if session.State != store.SessionStarting {
				log.V(1).Info("Session no longer starting, skipping deployment", "state", session.State)
				return nil
			}

			credential, err := tx.Credential(sessionName)
			if err != nil {
				return fmt.Errorf("failed to look up client credential for %s: %w", sessionName, err)
			}

			resource, err := d.buildResource(session, credential)
			if err != nil {
				return err
			}

			if err := d.client.Create(ctx, resource); err != nil {
				if !apierrors.IsAlreadyExists(err) {
					return fmt.Errorf("failed to create session resource %s: %w", sessionName, err)
				}
				log.V(1).Info("Session resource already exists, adopting it")
			}

			// An allocated session with no activation token outstanding
			// is live immediately. Everything else waits: reserves for a
			// claim, tokened sessions for their activation redirect.
			state := store.SessionWaiting
			if session.Owner != "" && session.Token == "" {
				state = store.SessionRunning
			}
			if err := tx.SetState(session, state); err != nil {
				return err
			}

			log.Info("Deployed workshop session", "environment", session.Environment.Name, "state", state)
			return nil
		})
	})
}

// buildResource assembles the WorkshopSession resource, owned by the
// environment resource so cluster level deletion of the environment sweeps
// its sessions away.
func (d *Deployer) buildResource(session *store.Session, credential *store.ClientCredential) (*trainingv1alpha1.WorkshopSession, error) {
	environment := &session.Environment

	overlay, err := environment.EnvOverlay()
	if err != nil {
		return nil, fmt.Errorf("failed to decode environment overlay for %s: %w", environment.Name, err)
	}

	// The reconciler records the resolved hostname with any spec override
	// applied; the derived form only covers records predating it.
	hostname := environment.Portal.Hostname
	if hostname == "" {
		hostname = fmt.Sprintf("%s-ui.%s", environment.Portal.Name, d.cfg.IngressDomain)
	}
	portalURL := fmt.Sprintf("%s://%s", d.cfg.IngressProtocol, hostname)

	frameAncestors := environment.Portal.FrameAncestors
	if frameAncestors == "" {
		frameAncestors = portalURL
	}

	// Sessions with an expiry deadline restart into the delete endpoint
	// so the workshop dashboard offers a clean exit. Unlimited sessions
	// just go back to the catalog.
	restartURL := portalURL + "/workshops/catalog/"
	if environment.Duration() > 0 || environment.Inactivity() > 0 {
		restartURL = fmt.Sprintf("%s/workshops/session/%s/delete/", portalURL, session.Name)
	}

	env := make([]trainingv1alpha1.EnvVar, 0, len(overlay)+8)
	env = append(env, overlay...)
	env = append(env,
		trainingv1alpha1.EnvVar{Name: "SESSION_NAME", Value: session.Name},
		trainingv1alpha1.EnvVar{Name: "TRAINING_PORTAL", Value: environment.Portal.Name},
		trainingv1alpha1.EnvVar{Name: "PORTAL_API_URL", Value: portalURL},
		trainingv1alpha1.EnvVar{Name: "PORTAL_CLIENT_ID", Value: credential.ClientID},
		trainingv1alpha1.EnvVar{Name: "PORTAL_CLIENT_SECRET", Value: credential.Secret},
		trainingv1alpha1.EnvVar{Name: "FRAME_ANCESTORS", Value: frameAncestors},
		trainingv1alpha1.EnvVar{Name: "RESTART_URL", Value: restartURL},
	)
	if environment.Duration() > 0 {
		env = append(env, trainingv1alpha1.EnvVar{Name: "ENABLE_COUNTDOWN", Value: "true"})
	}

	resource := &trainingv1alpha1.WorkshopSession{
		ObjectMeta: metav1.ObjectMeta{
			Name: session.Name,
			Labels: map[string]string{
				"training.workshopd.io/portal":      environment.Portal.Name,
				"training.workshopd.io/environment": environment.Name,
			},
		},
		Spec: trainingv1alpha1.WorkshopSessionSpec{
			Environment: trainingv1alpha1.EnvironmentRef{Name: environment.Name},
			Session: trainingv1alpha1.SessionDetail{
				ID: session.SessionID,
				Ingress: trainingv1alpha1.SessionIngress{
					Domain: d.cfg.IngressDomain,
					Secret: d.cfg.IngressSecret,
				},
				Env: env,
			},
			Analytics: d.analytics(),
		},
	}

	if environment.ResourceUID != "" {
		controller := true
		blockDeletion := false
		resource.OwnerReferences = []metav1.OwnerReference{{
			APIVersion:         trainingv1alpha1.GroupVersion.String(),
			Kind:               "WorkshopEnvironment",
			Name:               environment.Name,
			UID:                types.UID(environment.ResourceUID),
			Controller:         &controller,
			BlockOwnerDeletion: &blockDeletion,
		}}
	}

	return resource, nil
}

func (d *Deployer) analytics() *trainingv1alpha1.AnalyticsConfig {
	if d.cfg.GoogleTrackingID == "" && d.cfg.AnalyticsWebhookURL == "" {
		return nil
	}
	analytics := &trainingv1alpha1.AnalyticsConfig{}
	if d.cfg.GoogleTrackingID != "" {
		analytics.Google = &trainingv1alpha1.GoogleAnalytics{TrackingID: d.cfg.GoogleTrackingID}
	}
	if d.cfg.AnalyticsWebhookURL != "" {
		analytics.Webhook = &trainingv1alpha1.WebhookAnalytics{URL: d.cfg.AnalyticsWebhookURL}
	}
	return analytics
}
