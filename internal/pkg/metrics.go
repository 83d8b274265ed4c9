package pkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MembershipVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hub_membership_verifications_total",
		Help: "Membership checks by outcome.",
	}, []string{"result"})

	LoginLinksSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hub_login_links_sent_total",
		Help: "Login links dispatched.",
	})

	ProfilesProvisioned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hub_profiles_provisioned_total",
		Help: "Profile provisioning attempts by outcome.",
	}, []string{"result"})
)
