// Package http provides http transport for charts
package http

import (
	stdhttp "net/http"

	"covtrend/internal/modkit/httpkit"
	"covtrend/internal/services/api/charts/domain"
	svc "covtrend/internal/services/api/charts/service"
)

const (
	paramService = "service"
	paramOwner   = "owner_username"
)

// body is optional, an empty body runs with path values and defaults
var bodyOpts = httpkit.JSONOptions{MaxBytes: 1 << 20, AllowEmptyBody: true}

// Register mounts chart endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	r.Route("/{service}/{owner_username}/coverage", func(cr httpkit.Router) {
		// per repository series with a complexity view
		httpkit.Post(cr, "/repository", h.repository)

		// weighted organization series
		httpkit.Post(cr, "/organization", h.organization)
	})
}

type handlers struct{ svc svc.Service }

func input(r *stdhttp.Request) (domain.ChartInput, error) {
	body, err := httpkit.ParseJSON[domain.ChartBody](r, bodyOpts)
	if err != nil {
		return domain.ChartInput{}, err
	}
	return domain.ChartInput{
		Service: httpkit.Param(r, paramService),
		Owner:   httpkit.Param(r, paramOwner),
		UserID:  httpkit.UserInt64(r),
		Params:  body.Params,
	}, nil
}

// swagger:route POST /charts/{service}/{owner_username}/coverage/repository Charts chartRepository
// @Summary Coverage per repository over time
// @Tags Charts
// @Accept json
// @Produce json
// @Param service path string true "Provider" example(github)
// @Param owner_username path string true "Owner username"
// @Param X-User-ID header int false "Caller user id"
// @Param payload body object false "Chart parameters"
// @Success 200 {object} domain.RepositoryChart "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 404 {object} httpkit.Envelope "owner or repository not found"
// @Failure 502 {object} httpkit.Envelope "store failure"
// @Router /charts/{service}/{owner_username}/coverage/repository [post]
func (h *handlers) repository(r *stdhttp.Request) (any, error) {
	in, err := input(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Repository(r.Context(), in)
}

// swagger:route POST /charts/{service}/{owner_username}/coverage/organization Charts chartOrganization
// @Summary Weighted coverage across an organization's repositories
// @Tags Charts
// @Accept json
// @Produce json
// @Param service path string true "Provider" example(github)
// @Param owner_username path string true "Owner username"
// @Param X-User-ID header int false "Caller user id"
// @Param payload body object false "Chart parameters"
// @Success 200 {object} domain.OrganizationChart "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 404 {object} httpkit.Envelope "owner or repository not found"
// @Failure 502 {object} httpkit.Envelope "store failure"
// @Router /charts/{service}/{owner_username}/coverage/organization [post]
func (h *handlers) organization(r *stdhttp.Request) (any, error) {
	in, err := input(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Organization(r.Context(), in)
}
