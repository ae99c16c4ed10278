package toolhost

import (
	"os"
	"strings"
)

// sanitizedEnv keeps only low-risk environment variables for the spawned
// tool host, so API keys in the client's environment do not leak into it.
func sanitizedEnv() []string {
	allowedPrefixes := []string{
		"PATH=",
		"HOME=",
		"USER=",
		"LOGNAME=",
		"SHELL=",
		"TMPDIR=",
		"TMP=",
		"TEMP=",
		"LANG=",
		"LC_",
		"TERM=",
		"PWD=",
		"SYSTEMROOT=",
		"APPDATA=",
		"USERPROFILE=",
	}

	env := make([]string, 0, len(allowedPrefixes))
	for _, kv := range os.Environ() {
		for _, prefix := range allowedPrefixes {
			if strings.HasPrefix(strings.ToUpper(kv), prefix) {
				env = append(env, kv)
				break
			}
		}
	}
	return env
}

// mergeEnv appends extra KEY=VALUE entries, replacing inherited keys.
func mergeEnv(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	override := make(map[string]bool, len(extra))
	for _, kv := range extra {
		key, _, _ := strings.Cut(kv, "=")
		override[key] = true
	}
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if override[key] {
			continue
		}
		out = append(out, kv)
	}
	return append(out, extra...)
}
