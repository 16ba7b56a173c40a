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

// Package config resolves the process wide operator settings once at startup.
// Per portal overrides from the TrainingPortal spec are layered on top of
// these values by the components that consume them; nothing reads ambient
// environment state after Load returns.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Settings is the immutable operator configuration. It is resolved once in
// main and passed explicitly into component constructors.
type Settings struct {
	// OperatorName prefixes cluster scoped object names.
	OperatorName string

	// IngressDomain is the wildcard domain portal and session hostnames
	// are created under.
	IngressDomain string

	// IngressProtocol is "http" or "https".
	IngressProtocol string

	// IngressSecret is the TLS secret securing ingress hostnames, when set.
	IngressSecret string

	// IngressClass selects the ingress controller, when set.
	IngressClass string

	// StorageClass overrides the cluster default storage class, when set.
	StorageClass string

	// StorageUser and StorageGroup work around clusters which do not set
	// up persistent volume ownership correctly. A nonzero StorageUser adds
	// an init container that chowns the volume.
	StorageUser  int64
	StorageGroup int64

	// SecurityPolicyEngine names the cluster policy engine; "psp" adds a
	// pod security policy role binding to each portal namespace.
	SecurityPolicyEngine string

	// PortalImage is the container image for the portal web interface.
	PortalImage string

	// PortalScript and PortalStyle are injected into the portal config map
	// as theme overrides.
	PortalScript string
	PortalStyle  string

	// Default portal accounts, used when the TrainingPortal spec does not
	// provide its own.
	AdminUsername     string
	AdminPassword     string
	RobotUsername     string
	RobotPassword     string
	RobotClientID     string
	RobotClientSecret string

	// GoogleTrackingID and AnalyticsWebhookURL are the default analytics
	// integrations applied to portals without their own.
	GoogleTrackingID    string
	AnalyticsWebhookURL string

	// DatabaseURL is the DSN for the session manager store.
	DatabaseURL string
}

// Load reads settings from the environment, falling back to declared
// defaults. Credentials without an explicit value are generated fresh for
// the process so a portal never ships with a well known password.
func Load() *Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Settings{
		OperatorName:         getenv("OPERATOR_NAME", "workshopd"),
		IngressDomain:        getenv("INGRESS_DOMAIN", "workshopd.local"),
		IngressProtocol:      getenv("INGRESS_PROTOCOL", "http"),
		IngressSecret:        os.Getenv("INGRESS_SECRET"),
		IngressClass:         os.Getenv("INGRESS_CLASS"),
		StorageClass:         os.Getenv("CLUSTER_STORAGE_CLASS"),
		StorageUser:          getenvInt64("CLUSTER_STORAGE_USER", 0),
		StorageGroup:         getenvInt64("CLUSTER_STORAGE_GROUP", 1),
		SecurityPolicyEngine: os.Getenv("CLUSTER_SECURITY_POLICY_ENGINE"),
		PortalImage:          getenv("TRAINING_PORTAL_IMAGE", "ghcr.io/workshopd/training-portal:latest"),
		PortalScript:         os.Getenv("TRAINING_PORTAL_SCRIPT"),
		PortalStyle:          os.Getenv("TRAINING_PORTAL_STYLE"),
		AdminUsername:        getenv("PORTAL_ADMIN_USERNAME", "admin"),
		AdminPassword:        getenv("PORTAL_ADMIN_PASSWORD", generatedSecret()),
		RobotUsername:        getenv("PORTAL_ROBOT_USERNAME", "robot@workshopd"),
		RobotPassword:        getenv("PORTAL_ROBOT_PASSWORD", generatedSecret()),
		RobotClientID:        getenv("PORTAL_ROBOT_CLIENT_ID", "robot@workshopd"),
		RobotClientSecret:    getenv("PORTAL_ROBOT_CLIENT_SECRET", generatedSecret()),
		GoogleTrackingID:     os.Getenv("GOOGLE_TRACKING_ID"),
		AnalyticsWebhookURL:  os.Getenv("ANALYTICS_WEBHOOK_URL"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Invalid value %q for %s, using default %d", value, key, fallback)
		return fallback
	}
	return parsed
}

func generatedSecret() string {
	return uuid.NewString()
}
