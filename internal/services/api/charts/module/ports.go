package module

import (
	"context"

	"covtrend/internal/services/api/charts/domain"
	chartssvc "covtrend/internal/services/api/charts/service"
)

// Ports is the port set the charts module exposes to other modules
type Ports struct {
	Charts   domain.ServicePort
	Settings SettingsPort
}

// SettingsPort reports the effective charts configuration
type SettingsPort interface {
	Settings() Options
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptChartsPort struct{ svc chartssvc.Service }

// Repository runs a per repository chart
func (a adaptChartsPort) Repository(ctx context.Context, in domain.ChartInput) (domain.RepositoryChart, error) {
	return a.svc.Repository(ctx, in)
}

// Organization runs a merged organization chart
func (a adaptChartsPort) Organization(ctx context.Context, in domain.ChartInput) (domain.OrganizationChart, error) {
	return a.svc.Organization(ctx, in)
}

type settings Options

func (s settings) Settings() Options { return Options(s) }
