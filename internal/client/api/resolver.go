package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidBaseURL = errors.New("invalid base URL")

// BaseURLResolver yields the backend base URL for the running environment.
type BaseURLResolver interface {
	ResolveBaseURL() (string, error)
}

// StaticURL resolves to itself.
type StaticURL string

func (s StaticURL) ResolveBaseURL() (string, error) {
	return string(s), nil
}

type Platform string

const (
	PlatformAndroidEmulator Platform = "android-emulator"
	PlatformIOSSimulator    Platform = "ios-simulator"
	PlatformDevice          Platform = "device"
	PlatformWeb             Platform = "web"
)

const (
	// host loopback as seen from the Android emulator
	androidEmulatorHost = "10.0.2.2"
	localHost           = "localhost"

	DefaultPort       = 8080
	DefaultPathPrefix = "/api"
)

// EnvResolver derives the base URL from the runtime platform. Emulators do not
// share the host's network namespace, and a physical device must reach the
// developer machine through its LAN address. A non-empty Override wins.
type EnvResolver struct {
	Override   string
	Platform   Platform
	LANHost    string
	Port       int
	Scheme     string
	PathPrefix string
}

func (r EnvResolver) ResolveBaseURL() (string, error) {
	if o := strings.TrimSpace(r.Override); o != "" {
		return o, nil
	}

	var host string
	switch r.Platform {
	case PlatformAndroidEmulator:
		host = androidEmulatorHost
	case PlatformIOSSimulator, PlatformWeb, "":
		host = localHost
	case PlatformDevice:
		if r.LANHost == "" {
			return "", fmt.Errorf("%w: platform %q requires a LAN host", ErrInvalidBaseURL, r.Platform)
		}
		host = r.LANHost
	default:
		return "", fmt.Errorf("%w: unknown platform %q", ErrInvalidBaseURL, r.Platform)
	}

	scheme := r.Scheme
	if scheme == "" {
		scheme = "http"
	}
	port := r.Port
	if port == 0 {
		port = DefaultPort
	}
	prefix := r.PathPrefix
	if prefix == "" {
		prefix = DefaultPathPrefix
	}

	u := url.URL{
		Scheme: scheme,
		Host:   host + ":" + strconv.Itoa(port),
		Path:   "/" + strings.Trim(prefix, "/"),
	}
	return u.String(), nil
}

func validateBaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
