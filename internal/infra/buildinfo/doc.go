// Package buildinfo provides build-time version information.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/pagekeep/internal/infra/buildinfo.Version=v1.0.0" ./cmd/pagekeep
//
// When Commit is not injected, the VCS revision recorded by the Go
// toolchain is used instead.
package buildinfo
