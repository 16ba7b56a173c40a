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

package provision

import (
	"fmt"
	"strings"

	trainingv1alpha1 "github.com/workshopd/workshopd/api/v1alpha1"
	"github.com/workshopd/workshopd/internal/config"
)

// NamespaceName returns the namespace holding the portal deployment. The
// hostname can be overridden but the namespace is always derived from the
// portal name.
func NamespaceName(portal *trainingv1alpha1.TrainingPortal) string {
	return portal.Name + "-ui"
}

// Hostname resolves the external hostname of the portal web interface. A
// bare override is qualified with the ingress domain; a fully qualified
// override is trusted verbatim.
func Hostname(cfg *config.Settings, portal *trainingv1alpha1.TrainingPortal) string {
	override := portal.Spec.Portal.Ingress.Hostname

	switch {
	case override == "":
		return fmt.Sprintf("%s-ui.%s", portal.Name, cfg.IngressDomain)
	case !strings.Contains(override, "."):
		return fmt.Sprintf("%s.%s", override, cfg.IngressDomain)
	default:
		return override
	}
}

// URL resolves the external address of the portal web interface.
func URL(cfg *config.Settings, portal *trainingv1alpha1.TrainingPortal) string {
	return fmt.Sprintf("%s://%s", cfg.IngressProtocol, Hostname(cfg, portal))
}

// Credentials resolves the portal accounts, applying the process wide
// defaults wherever the portal spec leaves a field empty.
func Credentials(cfg *config.Settings, portal *trainingv1alpha1.TrainingPortal) trainingv1alpha1.PortalCredentials {
	credentials := portal.Spec.Portal.Credentials

	if credentials.Admin.Username == "" {
		credentials.Admin.Username = cfg.AdminUsername
	}
	if credentials.Admin.Password == "" {
		credentials.Admin.Password = cfg.AdminPassword
	}
	if credentials.Robot.Username == "" {
		credentials.Robot.Username = cfg.RobotUsername
	}
	if credentials.Robot.Password == "" {
		credentials.Robot.Password = cfg.RobotPassword
	}

	return credentials
}

// Clients resolves the OAuth client registrations, applying the process
// wide defaults wherever the portal spec leaves a field empty.
func Clients(cfg *config.Settings, portal *trainingv1alpha1.TrainingPortal) trainingv1alpha1.PortalClients {
	clients := portal.Spec.Portal.Clients

	if clients.Robot.ID == "" {
		clients.Robot.ID = cfg.RobotClientID
	}
	if clients.Robot.Secret == "" {
		clients.Robot.Secret = cfg.RobotClientSecret
	}

	return clients
}
