package utils

import (
	"os"
	"strings"
	"sync"
)

// InstanceNameEnv overrides the OS hostname, so replicas sharing a machine
// report distinct resolvers.
const InstanceNameEnv = "INSTANCE_NAME"

// GetHost names the serving replica. The value is resolved once per process.
var GetHost = sync.OnceValue(func() string {
	return resolveHost(os.LookupEnv, os.Hostname)
})

func resolveHost(lookupEnv func(string) (string, bool), hostname func() (string, error)) string {
	if name, ok := lookupEnv(InstanceNameEnv); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	h, err := hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}
