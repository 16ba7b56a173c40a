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

	"gorm.io/gorm"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/scheduler"
	"github.com/workshopd/workshopd/internal/store"
)

// WorkshopEnvironmentReconciler mirrors WorkshopEnvironment resources into
// the session store so the capacity scheduler can account against them,
// and pre-warms each environment's reserved session pool.
type WorkshopEnvironmentReconciler struct {
	client.Client
	Scheme    *runtime.Scheme
	Store     *store.Store
	Scheduler *scheduler.Scheduler
}

// +kubebuilder:rbac:groups=training.workshopd.io,resources=workshopenvironments,verbs=get;list;watch
// +kubebuilder:rbac:groups=training.workshopd.io,resources=workshopsessions,verbs=get;list;watch;create;delete

// Reconcile upserts the environment record. The owning portal record must
// already exist; until it does the environment is requeued, since portal
// provisioning may still be in flight.
func (r *WorkshopEnvironmentReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	var environment trainingv1alpha1.WorkshopEnvironment
	if err := r.Get(ctx, req.NamespacedName, &environment); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	if !environment.DeletionTimestamp.IsZero() {
		return ctrl.Result{}, nil
	}

	portalName := environment.Spec.Portal.Name
	if portalName == "" {
		log.Info("Workshop environment names no portal, ignoring", "environment", environment.Name)
		return ctrl.Result{}, nil
	}

	portalMissing := false
	err := r.Store.Transaction(ctx, func(tx *store.Tx) error {
		portal, err := tx.Portal(portalName)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			portalMissing = true
			return nil
		}
		if err != nil {
			return err
		}

		record, err := tx.Environment(environment.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = &store.WorkshopEnvironment{Name: environment.Name}
		} else if err != nil {
			return err
		}
		record.PortalID = portal.ID
		record.Capacity = int(environment.Spec.Capacity)
		record.Reserved = int(environment.Spec.Reserved)
		record.ResourceUID = string(environment.UID)
		if environment.Spec.Duration != nil {
			record.DurationSeconds = int64(environment.Spec.Duration.Duration.Seconds())
		}
		if environment.Spec.Inactivity != nil {
			record.InactivitySeconds = int64(environment.Spec.Inactivity.Duration.Seconds())
		}
		if err := record.SetEnvOverlay(environment.Spec.Session.Env); err != nil {
			return err
		}
		return tx.SaveEnvironment(record)
	})
	if err != nil {
		return ctrl.Result{}, err
	}
	if portalMissing {
		log.Info("Portal not yet registered, waiting", "environment", environment.Name, "portal", portalName)
		return ctrl.Result{RequeueAfter: retryDelay}, nil
	}

	if r.Scheduler != nil {
		if err := r.Scheduler.FillReserve(ctx, environment.Name); err != nil {
			log.Error(err, "Failed to pre-warm reserved sessions", "environment", environment.Name)
			return ctrl.Result{RequeueAfter: retryDelay}, nil
		}
	}

	return ctrl.Result{}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *WorkshopEnvironmentReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&trainingv1alpha1.WorkshopEnvironment{}).
		Named("workshopenvironment").
		Complete(r)
}
