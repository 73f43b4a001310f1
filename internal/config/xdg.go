// SPDX-License-Identifier: EPL-2.0

package config

import (
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "oggopus"

// ConfigPaths returns prioritized paths where filename can be found: the
// user config dir first, then the system config dirs.
func ConfigPaths(filename string) []string {
	paths := make([]string, 0, 1+len(xdg.ConfigDirs))
	paths = append(paths, filepath.Join(xdg.ConfigHome, appDir, filename))

	for _, dir := range xdg.ConfigDirs {
		paths = append(paths, filepath.Join(dir, appDir, filename))
	}

	slog.Debug("generated config paths",
		"filename", filename,
		"total_paths", len(paths),
		"user_path", paths[0])

	return paths
}

// LogPath is the default rotating log file location under the XDG cache
// home.
func LogPath() string {
	return filepath.Join(xdg.CacheHome, appDir, "oggopus.log")
}
