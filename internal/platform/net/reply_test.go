package net_test

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	perr "covtrend/internal/platform/errors"
	pnet "covtrend/internal/platform/net"
)

func TestOK(t *testing.T) {
	points := []map[string]any{{"date": "2026-03-01", "coverage": 89.66}}
	status, w := pnet.OK(points, "req-1")
	if status != http.StatusOK || w.StatusCode != status || w.Status != "OK" || w.RequestID != "req-1" {
		t.Fatalf("envelope = %d %+v", status, w)
	}
	if !reflect.DeepEqual(w.Data, points) {
		t.Fatalf("data = %v", w.Data)
	}
}

func TestError_Envelopes(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		code   perr.ErrorCode
		field  string
		fields map[string][]string
	}{
		"nil is ok": {status: http.StatusOK},
		"validation keeps every field": {
			err:    perr.Validation(map[string][]string{"grouping_unit": {"required field"}, "agg_value": {"unallowed value bogus"}}),
			status: http.StatusBadRequest,
			code:   perr.ErrorCodeValidation,
			fields: map[string][]string{"grouping_unit": {"required field"}, "agg_value": {"unallowed value bogus"}},
		},
		"unknown owner": {
			err:    perr.WithField(perr.NotFoundf("owner codecov not found"), "owner_username"),
			status: http.StatusNotFound,
			code:   perr.ErrorCodeNotFound,
			field:  "owner_username",
		},
		"store failure": {
			err:    perr.Upstreamf("fetch_records failed"),
			status: http.StatusBadGateway,
			code:   perr.ErrorCodeUpstream,
		},
		"plain error": {
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   perr.ErrorCodeUnknown,
		},
	}
	for name, tc := range cases {
		status, w := pnet.Error(tc.err, "req-2")
		if status != tc.status || w.StatusCode != tc.status || w.Status != http.StatusText(tc.status) {
			t.Fatalf("%s: status %d %+v", name, status, w)
		}
		if w.Code != tc.code || w.Field != tc.field || !reflect.DeepEqual(w.Fields, tc.fields) {
			t.Fatalf("%s: wire %+v", name, w)
		}
		if w.RequestID != "req-2" || w.Data != nil {
			t.Fatalf("%s: request id or data %+v", name, w)
		}
		if (tc.err == nil) != (w.Error == "") {
			t.Fatalf("%s: error text %q", name, w.Error)
		}
	}
}
