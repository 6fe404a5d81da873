// Package services holds the domain services of the campus client (auth,
// courses, enrollments, notifications) on top of the api request pipeline.
//
// Each service turns a normalized *api.Error into a *services.Error carrying a
// user-facing message chosen by the call site plus the original HTTP status
// and payload. A 404 on a single-resource fetch is always KindNotFound; every
// other failure is KindFailed, so no status is ever dropped. Input rejected
// before any request is sent is KindInvalid.
package services
