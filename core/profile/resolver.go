package profile

import (
	"context"
	"strconv"

	"github.com/brainbuddy/portal/core"
	"github.com/brainbuddy/portal/core/backend"
)

// defaultEndpoints is the ordered probe list for grade-level discovery.
// The API has grown several "me"-shaped endpoints over time; first hit wins.
var defaultEndpoints = []string{
	"/api/auth/me",
	"/api/auth/students/me",
	"/api/auth/student",
	"/api/auth/profile",
	"/api/users/me",
	"/api/auth/user",
}

// SourceLocalCache marks a pure cache hit. The name mirrors the storage
// namespace the old web client used, which downstream dashboards still key on.
const SourceLocalCache = "localStorage:" + KeyClassStd

// LinkResult is a best-effort linked-class answer. A zero ClassStd means
// "unlinked / unknown", never an error.
type LinkResult struct {
	ClassStd int
	Source   string
	Raw      interface{}
}

func (r LinkResult) Linked() bool { return r.ClassStd != 0 }

// Resolver finds the visitor's linked grade level: local cache first, then an
// ordered probe of profile-ish API endpoints, deep-searching each response.
type Resolver struct {
	client *backend.Client
	store  Store
	extra  []string
	min    int
	max    int
}

func NewResolver(client *backend.Client, store Store, conf *core.Config) *Resolver {
	return &Resolver{
		client: client,
		store:  store,
		extra:  conf.API.ProfileEndpoints,
		min:    conf.Class.Min,
		max:    conf.Class.Max,
	}
}

// Resolve never fails: per-endpoint errors mean "try the next one" and total
// failure yields the unlinked result. Callers treat that as "not linked yet".
func (r *Resolver) Resolve(ctx context.Context, token string, bypassCache bool) LinkResult {
	if !bypassCache {
		if cached, ok := r.store.Get(KeyClassStd); ok {
			if n, ok := toNum(cached); ok && n != 0 {
				return LinkResult{ClassStd: n, Source: SourceLocalCache}
			}
		}
	}

	// No token means "unknown", not a failure.
	if token == "" {
		return LinkResult{}
	}

	endpoints := make([]string, 0, len(r.extra)+len(defaultEndpoints))
	endpoints = append(endpoints, r.extra...)
	endpoints = append(endpoints, defaultEndpoints...)

	for _, path := range endpoints {
		payload, err := r.client.GetJSON(ctx, path, token)
		if err != nil {
			continue
		}
		if n, ok := ExtractClassStd(payload, r.min, r.max); ok {
			// write-through for snappy future loads
			r.store.Set(KeyClassStd, strconv.Itoa(n))
			return LinkResult{ClassStd: n, Source: path, Raw: payload}
		}
	}
	return LinkResult{}
}
