package entity

import (
	"strings"
	"time"
)

type DeploymentState string

const (
	DeploymentStateReady    DeploymentState = "READY"
	DeploymentStateBuilding DeploymentState = "BUILDING"
	DeploymentStateError    DeploymentState = "ERROR"
	DeploymentStateQueued   DeploymentState = "QUEUED"
	DeploymentStateCanceled DeploymentState = "CANCELED"
)

// PlatformDomainSuffix is the hosting platform's own reserved subdomain.
const PlatformDomainSuffix = ".vercel.app"

type Deployment struct {
	UID       string
	URL       string
	State     DeploymentState
	Target    string
	CreatedAt time.Time
}

func (d *Deployment) IsReady() bool { return d != nil && d.State == DeploymentStateReady }

type Domain struct {
	Name     string
	Verified bool
}

// IsCustom reports whether the domain lives outside the platform's reserved subdomain.
func (d Domain) IsCustom() bool {
	name := strings.ToLower(strings.TrimSuffix(d.Name, "."))
	return name != "" && !strings.HasSuffix(name, PlatformDomainSuffix) && name != strings.TrimPrefix(PlatformDomainSuffix, ".")
}

type VercelProject struct {
	ID            string
	Name          string
	AccountID     string
	TeamID        string
	UpdatedAt     int64
	Domains       []Domain
	ProductionURL string
}

// HasCustomDomain reports whether at least one domain is a custom domain.
func (p *VercelProject) HasCustomDomain() bool {
	for _, d := range p.Domains {
		if d.IsCustom() {
			return true
		}
	}
	return false
}

// PrimaryDomain picks the first verified custom domain, then the first custom domain.
func (p *VercelProject) PrimaryDomain() (string, bool) {
	for _, d := range p.Domains {
		if d.IsCustom() && d.Verified {
			return d.Name, true
		}
	}
	for _, d := range p.Domains {
		if d.IsCustom() {
			return d.Name, true
		}
	}
	return "", false
}
