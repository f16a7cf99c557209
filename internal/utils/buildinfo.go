package utils

import (
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// Version is set through -ldflags "-X github.com/temirov/codemass/internal/utils.Version=...".
var Version = ""

// GetApplicationVersion returns the linker-provided version, then the module
// version recorded in the build info, then "unknown".
func GetApplicationVersion() string {
	if trimmed := strings.TrimSpace(Version); trimmed != "" {
		return trimmed
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}
	for _, setting := range readBuildSettings(buildInfo, buildInfoAvailable) {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return "devel-" + setting.Value[:7]
		}
	}
	return unknownVersion
}

func readBuildSettings(buildInfo *debug.BuildInfo, available bool) []debug.BuildSetting {
	if !available || buildInfo == nil {
		return nil
	}
	return buildInfo.Settings
}
