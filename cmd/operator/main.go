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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/config"
	"github.com/workshopd/workshopd/internal/controller"
	"github.com/workshopd/workshopd/internal/deploy"
	"github.com/workshopd/workshopd/internal/janitor"
	"github.com/workshopd/workshopd/internal/locking"
	"github.com/workshopd/workshopd/internal/metrics"
	"github.com/workshopd/workshopd/internal/provision"
	"github.com/workshopd/workshopd/internal/scheduler"
	"github.com/workshopd/workshopd/internal/store"
	"github.com/workshopd/workshopd/internal/tasks"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilMust(clientgoscheme.AddToScheme(scheme))
	utilMust(trainingv1alpha1.AddToScheme(scheme))
}

func utilMust(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	var metricsAddr string
	var probeAddr string
	var enableLeaderElection bool
	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8443", "The address the metrics endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false,
		"Enable leader election for controller manager. "+
			"Enabling this will ensure there is only one active controller manager.")
	opts := zap.Options{}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		setupLog.Error(fmt.Errorf("DATABASE_URL is not set"), "unable to open session store")
		os.Exit(1)
	}
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		setupLog.Error(err, "unable to open session store")
		os.Exit(1)
	}
	if err := st.Migrate(); err != nil {
		setupLog.Error(err, "unable to migrate session store")
		os.Exit(1)
	}

	metrics.Register()

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "trainingportal.training.workshopd.io",
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	locks := locking.NewKeyedMutex()
	deployer := deploy.New(mgr.GetClient(), st, locks, cfg)
	runner := tasks.NewRunner(tasks.Options{})

	submitDeploy := func(sessionName string) {
		runner.Submit(tasks.Task{
			Name: "deploy-session/" + sessionName,
			Run: func(ctx context.Context) error {
				return deployer.Deploy(ctx, sessionName)
			},
		})
	}

	sched := scheduler.New(st, locks, cfg, nil, submitDeploy)

	if err := (&controller.TrainingPortalReconciler{
		Client:      mgr.GetClient(),
		Scheme:      mgr.GetScheme(),
		Config:      cfg,
		Provisioner: provision.NewManager(mgr.GetClient(), mgr.GetScheme(), cfg),
		Store:       st,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "TrainingPortal")
		os.Exit(1)
	}

	if err := (&controller.WorkshopEnvironmentReconciler{
		Client:    mgr.GetClient(),
		Scheme:    mgr.GetScheme(),
		Store:     st,
		Scheduler: sched,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "WorkshopEnvironment")
		os.Exit(1)
	}

	if err := mgr.Add(runner); err != nil {
		setupLog.Error(err, "unable to add task runner")
		os.Exit(1)
	}
	if err := mgr.Add(janitor.NewSweeper(st, time.Minute, 5*time.Minute, submitDeploy)); err != nil {
		setupLog.Error(err, "unable to add janitor")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
