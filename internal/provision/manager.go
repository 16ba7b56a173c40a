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

// Package provision manages the cluster footprint of a training portal:
// the portal namespace, its RBAC, storage, configuration and the portal
// web interface deployment. It owns mechanics only; phase decisions stay
// with the reconciler.
package provision

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/config"
)

const (
	componentLabel = "training.workshopd.io/component"
	portalLabel    = "training.workshopd.io/portal.name"

	// Stops wildcard certificate injection tooling from copying secrets
	// into the portal namespace.
	wildcardExclusionAnnotation = "secretgen.carvel.dev/excluded-from-wildcard-matching"
)

var (
	// ErrNamespaceHeld reports that the portal namespace exists but is
	// owned by another party. Provisioning must wait for the real owner
	// to release it, never adopt or delete it.
	ErrNamespaceHeld = errors.New("portal namespace held by another owner")

	// ErrNamespaceRecreated reports that a leftover namespace from a
	// failed attempt was deleted; provisioning restarts from scratch on
	// the next attempt.
	ErrNamespaceRecreated = errors.New("portal namespace deleted for recreation")

	// ErrNamespaceInconsistent reports an owned namespace encountered
	// without a retry marker. A previous attempt left state behind that
	// provisioning does not know how to resume from.
	ErrNamespaceInconsistent = errors.New("portal namespace in inconsistent state")

	// ErrNamespaceCreate reports a failure creating or refetching the
	// namespace. Recovery is a whole namespace delete and recreate.
	ErrNamespaceCreate = errors.New("portal namespace creation failed")
)

// Manager provisions the cluster resources backing a training portal.
type Manager struct {
	client client.Client
	scheme *runtime.Scheme
	cfg    *config.Settings
}

// NewManager creates a new provisioning manager.
func NewManager(c client.Client, scheme *runtime.Scheme, cfg *config.Settings) *Manager {
	return &Manager{
		client: c,
		scheme: scheme,
		cfg:    cfg,
	}
}

// EnsureNamespace creates the portal namespace, owned by the portal so
// deletion of the portal cascades to everything inside it. When the
// namespace already exists the outcome depends on who owns it and whether
// a retry was flagged; the sentinel errors describe each case.
func (m *Manager) EnsureNamespace(ctx context.Context, portal *trainingv1alpha1.TrainingPortal) (*corev1.Namespace, error) {
	nsName := NamespaceName(portal)

	existing := &corev1.Namespace{}
	err := m.client.Get(ctx, types.NamespacedName{Name: nsName}, existing)
	if err == nil {
		if !ownedByPortal(existing, portal) {
			return nil, fmt.Errorf("namespace %s: %w", nsName, ErrNamespaceHeld)
		}

		// We own it, so a previous attempt got part way through. Only a
		// recorded retry marker licenses wiping it; anything else means
		// state we cannot reason about.
		if portal.Status.Phase == trainingv1alpha1.PortalPhaseRetrying {
			if err := m.client.Delete(ctx, existing); err != nil && !apierrors.IsNotFound(err) {
				return nil, fmt.Errorf("failed to delete namespace %s: %w", nsName, err)
			}
			return nil, fmt.Errorf("namespace %s: %w", nsName, ErrNamespaceRecreated)
		}
		return nil, fmt.Errorf("namespace %s in phase %s: %w", nsName, portal.Status.Phase, ErrNamespaceInconsistent)
	}
	if !apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to query namespace %s: %w", nsName, err)
	}

	controller := true
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name: nsName,
			Labels: map[string]string{
				componentLabel: "portal",
				portalLabel:    portal.Name,
			},
			Annotations: map[string]string{
				wildcardExclusionAnnotation: "",
			},
			OwnerReferences: []metav1.OwnerReference{{
				APIVersion: trainingv1alpha1.GroupVersion.String(),
				Kind:       "TrainingPortal",
				Name:       portal.Name,
				UID:        portal.UID,
				Controller: &controller,
			}},
		},
	}
	if err := m.client.Create(ctx, ns); err != nil {
		return nil, fmt.Errorf("failed to create namespace %s: %v: %w", nsName, err, ErrNamespaceCreate)
	}

	// Query the namespace back so its generated uid can be used as the
	// owner of cluster scoped objects.
	created := &corev1.Namespace{}
	if err := m.client.Get(ctx, types.NamespacedName{Name: nsName}, created); err != nil {
		return nil, fmt.Errorf("failed to refetch namespace %s: %v: %w", nsName, err, ErrNamespaceCreate)
	}
	return created, nil
}

// PurgeBudgets deletes any limit ranges and resource quotas injected into
// the namespace by namespace templating, as they can block deployment of
// the portal. Not found errors are swallowed; the objects were never ours.
func (m *Manager) PurgeBudgets(ctx context.Context, nsName string) error {
	limitRanges := &corev1.LimitRangeList{}
	if err := m.client.List(ctx, limitRanges, client.InNamespace(nsName)); err != nil {
		return fmt.Errorf("failed to list limit ranges in %s: %w", nsName, err)
	}
	for i := range limitRanges.Items {
		if err := m.client.Delete(ctx, &limitRanges.Items[i]); err != nil && !apierrors.IsNotFound(err) {
			return fmt.Errorf("failed to delete limit range in %s: %w", nsName, err)
		}
	}

	quotas := &corev1.ResourceQuotaList{}
	if err := m.client.List(ctx, quotas, client.InNamespace(nsName)); err != nil {
		return fmt.Errorf("failed to list resource quotas in %s: %w", nsName, err)
	}
	for i := range quotas.Items {
		if err := m.client.Delete(ctx, &quotas.Items[i]); err != nil && !apierrors.IsNotFound(err) {
			return fmt.Errorf("failed to delete resource quota in %s: %w", nsName, err)
		}
	}

	return nil
}

// ownedByPortal reports whether the object carries an owner reference back
// to this portal instance. Name alone is not enough: a recreated portal
// gets a fresh uid and must not adopt leftovers from its predecessor.
func ownedByPortal(obj client.Object, portal *trainingv1alpha1.TrainingPortal) bool {
	for _, ref := range obj.GetOwnerReferences() {
		if ref.Kind == "TrainingPortal" && ref.UID == portal.UID {
			return true
		}
	}
	return false
}
