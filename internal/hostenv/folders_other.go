//go:build !windows

package hostenv

import (
	"github.com/adrg/xdg"
)

// Unix hosts have no special-folder API. The per-user and shared data
// folders come from the XDG base directories; program files map to /opt.
// There is no 32-bit program files folder, so its sources are skipped.
func osFolders() map[Folder]string {
	folders := map[Folder]string{
		ProgramFiles: "/opt",
	}
	if xdg.DataHome != "" {
		folders[LocalAppData] = xdg.DataHome
	}
	if len(xdg.DataDirs) > 0 && xdg.DataDirs[0] != "" {
		folders[CommonAppData] = xdg.DataDirs[0]
	}
	return folders
}

func systemDrive() string {
	return "/"
}

func executableExts(string) []string {
	return nil
}
