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

package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/config"
	"github.com/workshopd/workshopd/internal/metrics"
	"github.com/workshopd/workshopd/internal/provision"
	"github.com/workshopd/workshopd/internal/store"
)

const (
	// retryDelay is the fixed backoff between provisioning attempts.
	// Fixed rather than exponential: the operator acts on a small,
	// bounded set of portals and predictability wins.
	retryDelay = 30 * time.Second

	// reconcileBudget bounds the total time spent provisioning one
	// portal across retries. Exceeding it needs operator attention.
	reconcileBudget = 900 * time.Second
)

// TrainingPortalReconciler provisions the namespace and web interface
// deployment for a TrainingPortal resource.
type TrainingPortalReconciler struct {
	client.Client
	Scheme      *runtime.Scheme
	Config      *config.Settings
	Provisioner *provision.Manager
	Store       *store.Store
}

// +kubebuilder:rbac:groups=training.workshopd.io,resources=trainingportals,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=training.workshopd.io,resources=trainingportals/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=namespaces;serviceaccounts;persistentvolumeclaims;configmaps;services;limitranges;resourcequotas,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingresses,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=rbac.authorization.k8s.io,resources=clusterrolebindings;rolebindings,verbs=get;list;watch;create;update;patch;delete

// Reconcile drives the portal phase machine. Pending waits for a foreign
// namespace to be released, Retrying wipes the namespace and starts over,
// Error needs operator attention, and Running portals are left alone.
func (r *TrainingPortalReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	var portal trainingv1alpha1.TrainingPortal
	if err := r.Get(ctx, req.NamespacedName, &portal); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	// Deletion needs no logic of its own: owner references cascade from
	// the portal through the namespace to everything inside it.
	if !portal.DeletionTimestamp.IsZero() {
		return ctrl.Result{}, nil
	}

	// A running portal with all objects in place must reconcile as a
	// no-op, so repeated events never churn its resources.
	if portal.Status.Phase == trainingv1alpha1.PortalPhaseRunning {
		return ctrl.Result{}, nil
	}

	if portal.Status.ReconcileStartedAt == nil {
		now := metav1.Now()
		portal.Status.ReconcileStartedAt = &now
		if err := r.Status().Update(ctx, &portal); err != nil {
			return ctrl.Result{}, err
		}
	} else if time.Since(portal.Status.ReconcileStartedAt.Time) > reconcileBudget {
		log.Info("Provisioning budget exhausted, giving up", "portal", portal.Name)
		return r.setPhase(ctx, &portal, trainingv1alpha1.PortalPhaseError, ctrl.Result{})
	}

	ns, err := r.Provisioner.EnsureNamespace(ctx, &portal)
	switch {
	case errors.Is(err, provision.ErrNamespaceHeld):
		log.Info("Portal namespace held by another owner, waiting", "portal", portal.Name)
		return r.retry(ctx, &portal, trainingv1alpha1.PortalPhasePending)

	case errors.Is(err, provision.ErrNamespaceRecreated):
		log.Info("Deleted leftover portal namespace, retrying", "portal", portal.Name)
		metrics.PortalRetries.WithLabelValues(portal.Name).Inc()
		return ctrl.Result{RequeueAfter: retryDelay}, nil

	case errors.Is(err, provision.ErrNamespaceInconsistent):
		log.Error(err, "Portal namespace in unexpected state", "portal", portal.Name)
		return r.retry(ctx, &portal, trainingv1alpha1.PortalPhaseError)

	case errors.Is(err, provision.ErrNamespaceCreate):
		log.Error(err, "Failed to create portal namespace", "portal", portal.Name)
		return r.retry(ctx, &portal, trainingv1alpha1.PortalPhaseRetrying)

	case err != nil:
		log.Error(err, "Unexpected error querying portal namespace", "portal", portal.Name)
		return r.retry(ctx, &portal, trainingv1alpha1.PortalPhaseError)
	}

	if err := r.Provisioner.PurgeBudgets(ctx, ns.Name); err != nil {
		log.Error(err, "Failed to purge injected budgets", "namespace", ns.Name)
		return r.retry(ctx, &portal, trainingv1alpha1.PortalPhaseRetrying)
	}

	if err := r.Provisioner.EnsureSupporting(ctx, &portal, ns); err != nil {
		log.Error(err, "Failed to provision portal resources", "portal", portal.Name)
		return r.retry(ctx, &portal, trainingv1alpha1.PortalPhaseRetrying)
	}

	// Make the portal known to the capacity scheduler before users can
	// reach the web interface.
	if r.Store != nil {
		err := r.Store.Transaction(ctx, func(tx *store.Tx) error {
			record, err := tx.Portal(portal.Name)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				record = &store.TrainingPortal{Name: portal.Name}
			} else if err != nil {
				return err
			}
			record.SessionsMaximum = int(portal.Spec.Portal.Sessions.Maximum)
			record.Hostname = provision.Hostname(r.Config, &portal)
			record.FrameAncestors = strings.Join(portal.Spec.Portal.Theme.Frame.Ancestors, ",")
			return tx.SavePortal(record)
		})
		if err != nil {
			log.Error(err, "Failed to record portal", "portal", portal.Name)
			return r.retry(ctx, &portal, trainingv1alpha1.PortalPhaseRetrying)
		}
	}

	portal.Status.Phase = trainingv1alpha1.PortalPhaseRunning
	portal.Status.Namespace = ns.Name
	portal.Status.URL = provision.URL(r.Config, &portal)
	portal.Status.Credentials = provision.Credentials(r.Config, &portal)
	portal.Status.Clients = provision.Clients(r.Config, &portal)
	if err := r.Status().Update(ctx, &portal); err != nil {
		return ctrl.Result{}, err
	}

	log.Info("Provisioned training portal", "portal", portal.Name, "url", portal.Status.URL)
	return ctrl.Result{}, nil
}

// retry records the phase marker the next attempt keys its recovery branch
// off, then schedules that attempt.
func (r *TrainingPortalReconciler) retry(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, phase trainingv1alpha1.PortalPhase) (ctrl.Result, error) {
	metrics.PortalRetries.WithLabelValues(portal.Name).Inc()
	return r.setPhase(ctx, portal, phase, ctrl.Result{RequeueAfter: retryDelay})
}

func (r *TrainingPortalReconciler) setPhase(ctx context.Context, portal *trainingv1alpha1.TrainingPortal, phase trainingv1alpha1.PortalPhase, result ctrl.Result) (ctrl.Result, error) {
	if portal.Status.Phase == phase {
		return result, nil
	}
	portal.Status.Phase = phase
	if err := r.Status().Update(ctx, portal); err != nil {
		return ctrl.Result{}, err
	}
	return result, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *TrainingPortalReconciler) SetupWithManager(mgr ctrl.Manager) error {
	if r.Provisioner == nil {
		r.Provisioner = provision.NewManager(mgr.GetClient(), mgr.GetScheme(), r.Config)
	}
	return ctrl.NewControllerManagedBy(mgr).
		For(&trainingv1alpha1.TrainingPortal{}).
		Named("trainingportal").
		Complete(r)
}
