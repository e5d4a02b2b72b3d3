package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Repository(ctx context.Context, in ChartInput) (RepositoryChart, error)
	Organization(ctx context.Context, in ChartInput) (OrganizationChart, error)
}
