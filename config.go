package main

import "os"

// Build-time variables - inject via ldflags
// Example: go build -ldflags "-X main.targetBaseURL=https://staging.signupgate.com"
var (
	targetBaseURL string // -X main.targetBaseURL=...
	proxyFilePath string // -X main.proxyFilePath=...
)

const defaultBaseURL = "https://www.signupgate.com"

// GetBaseURL returns the target base URL (build-time, env fallback, or default).
func GetBaseURL() string {
	if targetBaseURL != "" {
		return targetBaseURL
	}
	if v := os.Getenv("TARGET_BASE_URL"); v != "" {
		return v
	}
	return defaultBaseURL
}

// GetProxyFile returns the proxy list path (build-time or env fallback).
func GetProxyFile() string {
	if proxyFilePath != "" {
		return proxyFilePath
	}
	if v := os.Getenv("PROXY_FILE"); v != "" {
		return v
	}
	return "proxies.txt"
}

// GetLogLevel returns the logging level (env or default).
func GetLogLevel() string {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}
